package agreement

import (
	"time"

	"github.com/shopspring/decimal"

	"rental-backend/internal/billing"
	"rental-backend/internal/timeutil"
)

// Details is everything an agreement is rendered from
type Details struct {
	ClientName         string
	ClientPhone        string
	ClientAddress      string
	ProductName        string
	ProductDescription string
	SerialNumber       string
	PickupDate         time.Time
	EndDate            time.Time
	AgreementDate      time.Time
	Quote              *billing.Quote
}

// Build resolves the placeholder values for a booking
func Build(d Details, f billing.Formatter) Values {
	v := Values{
		ClientName:         d.ClientName,
		ClientPhone:        d.ClientPhone,
		ClientAddress:      d.ClientAddress,
		ProductName:        d.ProductName,
		ProductDescription: d.ProductDescription,
		SerialNumber:       d.SerialNumber,
		PickupDate:         timeutil.FormatDisplay(d.PickupDate),
		EndDate:            timeutil.FormatDisplay(d.EndDate),
		AgreementDate:      timeutil.FormatDisplay(d.AgreementDate),
	}
	if q := d.Quote; q != nil {
		v[RentalRate] = f.Rate(q.Rate)
		v[SecurityDeposit] = f.Amount(q.SecurityDeposit)
		v[DeliveryCharges] = f.Amount(q.DeliveryCharges)
		v[TotalCharge] = f.Amount(q.RentalTotal)
	}
	return v
}

// SampleValues fills every placeholder with demo data for template previews
func SampleValues(now time.Time, f billing.Formatter) Values {
	start := timeutil.StartOfDay(now)
	end := timeutil.AddDays(start, 3)
	q, _ := billing.NewQuote(start, end, decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(500))
	return Build(Details{
		ClientName:         "Asha Verma",
		ClientPhone:        "9876543210",
		ClientAddress:      "12 MG Road, Jaipur",
		ProductName:        "Wheelchair",
		ProductDescription: "Foldable, steel frame",
		SerialNumber:       "WC-0001",
		PickupDate:         start,
		EndDate:            end,
		AgreementDate:      now,
		Quote:              q,
	}, f)
}
