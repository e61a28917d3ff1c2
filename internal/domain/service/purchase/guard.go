package purchase

import (
	"market_buyer/internal/domain"
	"market_buyer/internal/domain/value"
	"market_buyer/pkg/errcodes"
)

// Admit checks that price fits the balance. An unknown balance admits
// everything. price is the bid that would be sent, after price-floor
// adjustment.
func Admit(balance value.Balance, price value.Price) *domain.Error {
	if balance.Covers(price) {
		return nil
	}

	amount, _ := balance.Get()

	return domain.NewError(errcodes.NeedMoney, domain.SourceOwner, "balance is too low").
		With(domain.KeyNeedMoney, price).
		With(domain.KeyBalance, amount).
		With(domain.KeyShortfall, price-amount)
}
