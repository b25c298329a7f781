package models

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// SQLite stores NUMERIC columns as 64 bit floats when the value has a
// fractional part. Those hold 15 decimal digits exactly.
const (
	AmountDigits = 15
	AmountPlaces = 8
)

// checkAmount verifies that the amount survives a round trip through the database.
func checkAmount(d decimal.Decimal) error {
	digits, places := precision(d)
	if digits > AmountDigits || places > AmountPlaces {
		return ErrAmountPrecision
	}
	return nil
}

// precision returns the number of digits from the most significant digit or the
// units place, whichever is smaller, down to the last non-zero digit, and the
// number of decimal places.
func precision(d decimal.Decimal) (digits, places int) {
	coefficient := new(big.Int).Abs(d.Coefficient()).String()
	if coefficient == "0" {
		return 0, 0
	}

	trimmed := strings.TrimRight(coefficient, "0")
	exponent := int(d.Exponent()) + len(coefficient) - len(trimmed)

	digits = len(trimmed)
	if exponent > 0 {
		digits += exponent
	} else {
		places = -exponent
	}

	return digits, places
}
