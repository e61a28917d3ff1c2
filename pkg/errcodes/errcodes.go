package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidItemID       failure.ErrorCode = "InvalidItemID"
	InvalidTimestamp    failure.ErrorCode = "InvalidTimestamp"
	InvalidDiscount     failure.ErrorCode = "InvalidDiscount"

	// Purchase loop.
	AttemptsFailed failure.ErrorCode = "AttemptsFailed"
	NeedMoney      failure.ErrorCode = "NeedMoney"
	BadOfferPrice  failure.ErrorCode = "BadOfferPrice"
	NeedToTake     failure.ErrorCode = "NeedToTake"

	// Recipient side of the trade.
	InvalidToken       failure.ErrorCode = "InvalidToken"
	InventoryClosed    failure.ErrorCode = "InventoryClosed"
	UnableOfflineTrade failure.ErrorCode = "UnableOfflineTrade"
	VacGameBan         failure.ErrorCode = "VacGameBan"
	BotCanceledTrades  failure.ErrorCode = "BotCanceledTrades"
	CanceledTrades     failure.ErrorCode = "CanceledTrades"

	// Catalog and history lookups.
	RequestFailed failure.ErrorCode = "RequestFailed"
	TooHighPrices failure.ErrorCode = "TooHighPrices"
	HistoryFailed failure.ErrorCode = "HistoryFailed"
	UnknownStage  failure.ErrorCode = "UnknownStage"
)
