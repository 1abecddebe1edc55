package models

import (
	"time"

	"github.com/shopspring/decimal"

	"rental-backend/internal/duedate"
)

// Delivery modes
const (
	DeliveryModeDelivery = "delivery"
	DeliveryModePickup   = "pickup"
)

// Rental is a booking of one product by one client. Money fields and the
// agreement HTML are snapshots taken at booking time and never recomputed.
type Rental struct {
	ID              int             `json:"id"`
	Reference       string          `json:"reference"`
	ClientName      string          `json:"clientName"`
	ClientPhone     string          `json:"clientPhone"`
	ClientEmail     string          `json:"clientEmail,omitempty"`
	ClientAddress   string          `json:"clientAddress,omitempty"`
	ProductID       int             `json:"productId"`
	Product         *Product        `json:"product,omitempty"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	DeliveryMode    string          `json:"deliveryMode"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	DeliveryCharges decimal.Decimal `json:"deliveryCharges"`
	RentalRate      decimal.Decimal `json:"rentalRate"`
	TotalCharge     decimal.Decimal `json:"totalCharge"`
	SerialNumber    string          `json:"serialNumber"`
	AgreementHTML   string          `json:"agreementHtml,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Derived on read, never stored
	Status        duedate.Status `json:"status,omitempty"`
	DaysRemaining int            `json:"daysRemaining"`
}

// ProductName returns the joined product name or "Unknown"
func (r *Rental) ProductName() string {
	if r.Product == nil || r.Product.Name == "" {
		return "Unknown"
	}
	return r.Product.Name
}

// Annotate fills the derived status fields for the given instant
func (r *Rental) Annotate(w duedate.Windows, now time.Time) {
	r.Status = w.Classify(r.EndDate)
	r.DaysRemaining = duedate.DaysRemaining(r.EndDate, now)
}

// BookingRequest is the public booking form. Dates are YYYY-MM-DD or RFC3339.
type BookingRequest struct {
	ClientName      string      `json:"clientName"`
	ClientPhone     string      `json:"clientPhone"`
	ClientEmail     string      `json:"clientEmail"`
	ClientAddress   string      `json:"clientAddress"`
	ProductID       int         `json:"productId"`
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`
	DeliveryMode    string      `json:"deliveryMode"`
	RentalRate      AmountInput `json:"rentalRate"`
	DeliveryCharges AmountInput `json:"deliveryCharges"`
	SerialNumber    string      `json:"serialNumber"`
}

// ExtendRequest moves a rental's end date
type ExtendRequest struct {
	NewEndDate string `json:"newEndDate"`
}

// RentalFilter narrows rental listings. All fields are optional. A due-date
// status filter is intersected with EndFrom/EndBefore.
type RentalFilter struct {
	Search      string
	CreatedFrom *time.Time // createdAt >= CreatedFrom
	CreatedTo   *time.Time // createdAt <= CreatedTo
	EndFrom     *time.Time // endDate >= EndFrom
	EndBefore   *time.Time // endDate < EndBefore
	ProductID   int
	Page        Pagination
}

// RentalPage is one page of rentals
type RentalPage struct {
	Rentals      []*Rental `json:"rentals"`
	TotalPages   int       `json:"totalPages"`
	CurrentPage  int       `json:"currentPage"`
	TotalRentals int       `json:"totalRentals"`
}

// DashboardStats is the summary shown on the admin dashboard
type DashboardStats struct {
	TotalProducts int       `json:"totalProducts"`
	ActiveRentals int       `json:"activeRentals"`
	DueToday      []*Rental `json:"dueToday"`
	DueTomorrow   []*Rental `json:"dueTomorrow"`
	OverdueCount  int       `json:"overdueCount"`
}
