package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Column limits of the money columns: NUMERIC(12,2) for prices, rates and
// charges, NUMERIC(14,2) for a rental's total.
var (
	MaxAmount      = decimal.RequireFromString("9999999999.99")
	MaxTotalCharge = decimal.RequireFromString("999999999999.99")
)

const amountPlaces = 2

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AmountInput is a money value as sent by clients. It accepts a JSON
// number, a numeric string (form inputs) or null. Empty means "not supplied".
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*a = AmountInput(strings.TrimSpace(str))
		return nil
	}
	*a = AmountInput(s)
	return nil
}

// Supplied reports whether the client sent a non-empty value
func (a AmountInput) Supplied() bool {
	return strings.TrimSpace(string(a)) != ""
}

// Parse converts the input to a non-negative decimal with at most two
// decimal places that fits a money column. field names the input in
// validation errors.
func (a AmountInput) Parse(field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero, NewValidationError(field, "must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, NewValidationError(field, "must not be negative")
	}
	if !d.Equal(d.Truncate(amountPlaces)) {
		return decimal.Zero, NewValidationError(field, "must have at most 2 decimal places")
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, NewValidationError(field, "must not exceed "+MaxAmount.String())
	}
	return d.Truncate(amountPlaces), nil
}
