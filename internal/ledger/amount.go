package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a non-negative token quantity in base units with a fixed
// number of decimals.
type Amount struct {
	base     *big.Int
	decimals int
}

// NewAmount wraps base units. A nil base is zero.
func NewAmount(base *big.Int, decimals int) Amount {
	v := new(big.Int)
	if base != nil {
		v.Set(base)
	}
	return Amount{base: v, decimals: decimals}
}

// ParseAmount parses a decimal string such as "12.5" exactly.
func ParseAmount(s string, decimals int) (Amount, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > decimals {
		return Amount{}, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{base: v, decimals: decimals}, nil
}

// Base returns a copy of the base-unit value.
func (a Amount) Base() *big.Int {
	if a.base == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.base)
}

func (a Amount) Decimals() int { return a.decimals }

func (a Amount) IsZero() bool { return a.base == nil || a.base.Sign() == 0 }

// Cmp compares base units.
func (a Amount) Cmp(b Amount) int { return a.Base().Cmp(b.Base()) }

// String formats the amount without trailing fractional zeros.
func (a Amount) String() string {
	digits := a.Base().String()
	if a.decimals == 0 {
		return digits
	}
	if len(digits) <= a.decimals {
		digits = strings.Repeat("0", a.decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-a.decimals]
	frac := strings.TrimRight(digits[len(digits)-a.decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
