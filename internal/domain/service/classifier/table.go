package classifier

import (
	"git.appkode.ru/pub/go/failure"

	"market_buyer/internal/domain"
	"market_buyer/pkg/errcodes"
)

// Reasons for SilentRetry verdicts that carry no error kind.
const (
	ReasonExpired   = "expired"
	ReasonContested = "contested"
	ReasonList      = "list"
	ReasonBot       = "bot"
	ReasonSteam     = "steam"
	ReasonServer    = "server"
	ReasonUnknown   = "unknown"
)

func fatal(kind failure.ErrorCode, source domain.Source) Verdict {
	return Verdict{Kind: kind, Source: source, Routing: Fatal, Known: true}
}

func retry(reason string) Verdict {
	return Verdict{Source: domain.SourceMarket, Routing: SilentRetry, Reason: reason, Known: true}
}

// Provider messages as returned in the "error" field of the buy endpoint.
//
//nolint:gochecknoglobals
var table = map[string]Verdict{
	"ok":      {Routing: TransparentSuccess, Known: true},
	"success": {Routing: TransparentSuccess, Known: true},

	"bad_offer_price":                  fatal(errcodes.BadOfferPrice, domain.SourceMarket),
	"Bad offer price":                  fatal(errcodes.BadOfferPrice, domain.SourceMarket),
	"The price has changed, try again": fatal(errcodes.BadOfferPrice, domain.SourceMarket),

	"Offer not found":                      retry(ReasonExpired),
	"The offer has expired":                retry(ReasonExpired),
	"Someone is already buying this item":  retry(ReasonContested),
	"The item was bought by another buyer": retry(ReasonContested),
	"Item list is empty":                   retry(ReasonList),
	"Failed to get the list of items":      retry(ReasonList),
	"Bot is not ready":                     retry(ReasonBot),
	"Bot is offline":                       retry(ReasonBot),
	"Steam is not responding":              retry(ReasonSteam),
	"Steam is temporarily unavailable":     retry(ReasonSteam),
	"Internal server error":                retry(ReasonServer),
	"Unexpected server error":              retry(ReasonServer),

	"You have items to take, withdraw them before buying": fatal(errcodes.NeedToTake, domain.SourceOwner),
	"need_to_take": fatal(errcodes.NeedToTake, domain.SourceOwner),

	"Not enough money": fatal(errcodes.NeedMoney, domain.SourceOwner),
	"not_enough_money": fatal(errcodes.NeedMoney, domain.SourceOwner),

	"Invalid trade link":       fatal(errcodes.InvalidToken, domain.SourceUser),
	"Trade token is malformed": fatal(errcodes.InvalidToken, domain.SourceUser),

	"Steam inventory is private": fatal(errcodes.InventoryClosed, domain.SourceUser),

	"Unable to send an offline trade": fatal(errcodes.UnableOfflineTrade, domain.SourceUser),

	"Account has a VAC or game ban": fatal(errcodes.VacGameBan, domain.SourceUser),

	"Too many trades were declined by the bot": fatal(errcodes.BotCanceledTrades, domain.SourceUser),
	"Too many declined trades":                 fatal(errcodes.CanceledTrades, domain.SourceUser),
}

//nolint:gochecknoglobals
var byKind = func() map[failure.ErrorCode][]string {
	m := make(map[failure.ErrorCode][]string)
	for msg, v := range table {
		if v.Kind != "" {
			m[v.Kind] = append(m[v.Kind], msg)
		}
	}
	return m
}()
