package config

import "time"

type Market struct {
	BaseURL string        `env:"MARKET_BASE_URL" envDefault:"https://market.csgo.com"`
	APIKey  string        `env:"MARKET_API_KEY,required" json:"-"`
	Timeout time.Duration `env:"MARKET_TIMEOUT" envDefault:"15s"`
	// ReadRetries caps transport retries for offer, history and balance
	// requests.
	ReadRetries uint64 `env:"MARKET_READ_RETRIES" envDefault:"3"`
	// BuyRetries caps transport retries for a buy request. Kept below
	// ReadRetries: a retried buy may be a second purchase.
	BuyRetries        uint64  `env:"MARKET_BUY_RETRIES" envDefault:"1"`
	RequestsPerSecond float64 `env:"MARKET_RPS" envDefault:"5"`
	// MoneyScale is the number of minor units in one unit of the account
	// currency.
	MoneyScale     int64 `env:"MARKET_MONEY_SCALE" envDefault:"100"`
	LogFieldMaxLen int   `env:"MARKET_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Purchase struct {
	PriceFloorAdjustment bool `env:"PURCHASE_PRICE_FLOOR_ADJUSTMENT" envDefault:"true"`
	Discounts            bool `env:"PURCHASE_DISCOUNTS" envDefault:"false"`
	// PriceScale converts caller ceilings into marketplace units.
	PriceScale      int64  `env:"PURCHASE_PRICE_SCALE" envDefault:"1"`
	DiscountRatio   string `env:"PURCHASE_DISCOUNT_RATIO" envDefault:"0"`
	InitialBalance  int64  `env:"PURCHASE_INITIAL_BALANCE" envDefault:"-1"`
	WalletKeyPrefix string `env:"PURCHASE_WALLET_KEY_PREFIX" envDefault:"market-buyer:wallet"`
	// BalanceSyncInterval polls the marketplace balance, zero disables it.
	BalanceSyncInterval time.Duration `env:"PURCHASE_BALANCE_SYNC_INTERVAL" envDefault:"0"`
}
