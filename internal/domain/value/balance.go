package value

// Balance is the account balance as last known. An unknown balance admits any
// price.
type Balance struct {
	amount Price
	known  bool
}

func UnknownBalance() Balance {
	return Balance{}
}

func KnownBalance(amount Price) Balance {
	return Balance{amount: amount, known: true}
}

func (b Balance) Get() (Price, bool) {
	return b.amount, b.known
}

func (b Balance) IsKnown() bool {
	return b.known
}

// Covers reports whether price can be paid from the balance.
func (b Balance) Covers(price Price) bool {
	return !b.known || price <= b.amount
}

func (b Balance) String() string {
	if !b.known {
		return "unknown"
	}
	return b.amount.String()
}
