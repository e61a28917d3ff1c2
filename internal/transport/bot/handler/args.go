package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"market_buyer/internal/domain/entity"
	"market_buyer/internal/domain/value"
)

var (
	errUsage        = errors.New("usage")
	errInvalidPrice = errors.New("invalid price")
	errInvalidID    = errors.New("invalid item id")
	errInvalidTime  = errors.New("invalid time")
)

const noLimit = "-"

// parseBuyArgs разбирает "/buy <цена|-> <hash name>".
func parseBuyArgs(text string) (entity.BuyRequest, error) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return entity.BuyRequest{}, errUsage
	}

	ceiling := value.NoCeiling()
	if parts[1] != noLimit {
		price, err := value.ParsePrice(parts[1])
		if err != nil {
			return entity.BuyRequest{}, errInvalidPrice
		}
		ceiling = value.CeilingOf(price)
	}

	return entity.BuyRequest{
		HashName: strings.Join(parts[2:], " "),
		MaxPrice: ceiling,
	}, nil
}

// parseStageArgs разбирает "/stage <itemId> [unix]".
func parseStageArgs(text string) (int64, *time.Time, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return 0, nil, errUsage
	}

	itemID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, nil, errInvalidID
	}

	if len(parts) < 3 {
		return itemID, nil, nil
	}

	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || unix <= 0 {
		return 0, nil, errInvalidTime
	}

	approx := time.Unix(unix, 0).UTC()

	return itemID, &approx, nil
}

func parseBalanceArg(arg string) (value.Balance, error) {
	if strings.EqualFold(arg, "unknown") || arg == noLimit {
		return value.UnknownBalance(), nil
	}

	amount, err := value.ParsePrice(arg)
	if err != nil {
		return value.Balance{}, errInvalidPrice
	}

	return value.KnownBalance(amount), nil
}

// commandArg возвращает первый аргумент команды.
func commandArg(text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}
