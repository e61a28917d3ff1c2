package domain

// Keys used in Error.Context.
const (
	KeyNeedMoney   = "needMoney"
	KeyListedPrice = "listedPrice"
	KeyBalance     = "balance"
	KeyShortfall   = "shortfall"
	KeyMinPrice    = "minPrice"
	KeyItemKey     = "itemKey"
	KeyItemID      = "itemId"
	KeyStage       = "stage"
	KeyOffer       = "offer"
	KeyMessage     = "message"
	KeyStatus      = "status"
)
