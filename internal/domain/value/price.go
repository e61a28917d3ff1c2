package value

import (
	"fmt"
	"strconv"
)

// Price is an amount in minor currency units.
type Price int64

func (p Price) Int64() int64 {
	return int64(p)
}

func (p Price) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// ParsePrice parses a non-negative integer amount.
func ParsePrice(s string) (Price, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseInt: %w", err)
	}

	if v < 0 {
		return 0, fmt.Errorf("negative price %d", v)
	}

	return Price(v), nil
}

// Ceiling is an optional upper price bound. The zero value is unbounded.
type Ceiling struct {
	value Price
	set   bool
}

func NoCeiling() Ceiling {
	return Ceiling{}
}

func CeilingOf(p Price) Ceiling {
	return Ceiling{value: p, set: true}
}

func (c Ceiling) Get() (Price, bool) {
	return c.value, c.set
}

// Admits reports whether p is within the ceiling.
func (c Ceiling) Admits(p Price) bool {
	return !c.set || p <= c.value
}

// Map applies f to a bounded ceiling.
func (c Ceiling) Map(f func(Price) Price) Ceiling {
	if !c.set || f == nil {
		return c
	}
	return CeilingOf(f(c.value))
}

func (c Ceiling) String() string {
	if !c.set {
		return "unbounded"
	}
	return c.value.String()
}
