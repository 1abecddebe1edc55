// Package billing computes rental periods and charges.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"rental-backend/internal/models"
)

const day = 24 * time.Hour

// DayCount returns the number of billable days between start and end,
// rounding any partial day up. end must be strictly after start.
func DayCount(start, end time.Time) (int, error) {
	d := end.Sub(start)
	if d <= 0 {
		return 0, models.NewValidationError("endDate", "end date must be after start date")
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days, nil
}

// Quote is the charge breakdown of a booking
type Quote struct {
	Days            int
	Rate            decimal.Decimal
	RentalTotal     decimal.Decimal // Days x Rate
	DeliveryCharges decimal.Decimal
	SecurityDeposit decimal.Decimal
}

// BookingTotal is the amount shown on the booking summary: rent plus
// delivery. The refundable deposit is listed separately.
func (q *Quote) BookingTotal() decimal.Decimal {
	return q.RentalTotal.Add(q.DeliveryCharges)
}

// NewQuote prices a rental period at a daily rate
func NewQuote(start, end time.Time, rate, delivery, deposit decimal.Decimal) (*Quote, error) {
	days, err := DayCount(start, end)
	if err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, models.NewValidationError("rentalRate", "must not be negative")
	}
	if delivery.IsNegative() {
		return nil, models.NewValidationError("deliveryCharges", "must not be negative")
	}
	if deposit.IsNegative() {
		return nil, models.NewValidationError("securityDeposit", "must not be negative")
	}
	return &Quote{
		Days:            days,
		Rate:            rate,
		RentalTotal:     rate.Mul(decimal.NewFromInt(int64(days))),
		DeliveryCharges: delivery,
		SecurityDeposit: deposit,
	}, nil
}

// Formatter renders money for agreements, exports and emails
type Formatter struct {
	Currency string // e.g. "Rs."
}

// Amount renders "Rs.500/-"
func (f Formatter) Amount(d decimal.Decimal) string {
	return f.Currency + d.String() + "/-"
}

// Rate renders "Rs.100/- per day"
func (f Formatter) Rate(d decimal.Decimal) string {
	return f.Amount(d) + " per day"
}
