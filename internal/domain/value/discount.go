package value

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountRatio is the buyer discount the marketplace grants, in [0, 1].
type DiscountRatio struct {
	d decimal.Decimal
}

func ZeroDiscount() DiscountRatio {
	return DiscountRatio{d: decimal.Zero}
}

// NewDiscountRatio validates r.
func NewDiscountRatio(r decimal.Decimal) (DiscountRatio, error) {
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		return DiscountRatio{}, fmt.Errorf("discount ratio %s is outside [0, 1]", r)
	}
	return DiscountRatio{d: r}, nil
}

// ParseDiscountRatio parses a ratio such as "0.05".
func ParseDiscountRatio(s string) (DiscountRatio, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return DiscountRatio{}, fmt.Errorf("decimal.NewFromString: %w", err)
	}
	return NewDiscountRatio(d)
}

func (r DiscountRatio) Decimal() decimal.Decimal {
	return r.d
}

func (r DiscountRatio) String() string {
	return r.d.String()
}

// Apply returns round(p × (1 − r)), rounding half away from zero.
func (r DiscountRatio) Apply(p Price) Price {
	factor := decimal.NewFromInt(1).Sub(r.d)
	return Price(decimal.NewFromInt(int64(p)).Mul(factor).Round(0).IntPart())
}
