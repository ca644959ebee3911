// Package money represents amounts as integer euro cents. Weekly accrual
// multiplies per-order costs by order counts; integer math keeps those sums
// exact where float64 would drift.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a monetary amount in euro cents.
type Cents int64

var (
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrNegativeAmount = errors.New("negative_amount")
)

// ParseDecimal parses a decimal amount string into cents. The comma is
// accepted as decimal separator alongside the dot. Fractions beyond two
// digits are rejected rather than silently rounded.
func ParseDecimal(raw string) (Cents, error) {
	value := strings.TrimSpace(raw)
	value = strings.ReplaceAll(value, ",", ".")
	if value == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}
	if value == "" || value == "." {
		return 0, ErrInvalidAmount
	}

	whole := value
	frac := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
		if strings.IndexByte(frac, '.') >= 0 {
			return 0, ErrInvalidAmount
		}
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	hundredths, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := Cents(units*100 + hundredths)
	if negative {
		cents = -cents
	}
	return cents, nil
}

// ParseNonNegative rejects amounts below zero after parsing.
func ParseNonNegative(raw string) (Cents, error) {
	cents, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrNegativeAmount
	}
	return cents, nil
}

// String renders the amount with two decimal places, e.g. "3.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Mul multiplies the amount by an integer count.
func (c Cents) Mul(n int64) Cents {
	return Cents(int64(c) * n)
}
