package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rental-backend/internal/agreement"
	"rental-backend/internal/billing"
	"rental-backend/internal/duedate"
	"rental-backend/internal/events"
	"rental-backend/internal/logger"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

const sideEffectTimeout = 30 * time.Second

type RentalService struct {
	Products  ProductStore
	Rentals   RentalStore
	Templates TemplateStore
	Format    billing.Formatter

	// Optional downstream collaborators
	Notifier AgreementNotifier
	Archive  AgreementArchiver
	Events   EventPublisher
	Stats    StatsCache

	// Now is the clock. Dispatch runs post-commit side effects; it defaults
	// to a new goroutine.
	Now      func() time.Time
	Dispatch func(func())

	log zerolog.Logger
}

func NewRentalService(products ProductStore, rentals RentalStore, templates TemplateStore, format billing.Formatter) *RentalService {
	return &RentalService{
		Products:  products,
		Rentals:   rentals,
		Templates: templates,
		Format:    format,
		Now:       timeutil.Now,
		Dispatch:  func(f func()) { go f() },
		log:       logger.Component("rentals"),
	}
}

type booking struct {
	clientName    string
	clientPhone   string
	clientEmail   string
	clientAddress string
	start, end    time.Time
	deliveryMode  string
	serialNumber  string
}

func validateBooking(req *models.BookingRequest) (*booking, error) {
	b := &booking{
		clientName:    strings.TrimSpace(req.ClientName),
		clientPhone:   strings.TrimSpace(req.ClientPhone),
		clientEmail:   strings.TrimSpace(req.ClientEmail),
		clientAddress: strings.TrimSpace(req.ClientAddress),
		deliveryMode:  strings.ToLower(strings.TrimSpace(req.DeliveryMode)),
		serialNumber:  strings.TrimSpace(req.SerialNumber),
	}
	if b.clientName == "" {
		return nil, models.NewValidationError("clientName", "client name is required")
	}
	if b.clientPhone == "" {
		return nil, models.NewValidationError("clientPhone", "client phone is required")
	}
	if b.clientEmail != "" {
		if _, err := mail.ParseAddress(b.clientEmail); err != nil {
			return nil, models.NewValidationError("clientEmail", "invalid email address")
		}
	}
	if req.ProductID <= 0 {
		return nil, models.NewValidationError("productId", "product is required")
	}

	switch b.deliveryMode {
	case "":
		b.deliveryMode = models.DeliveryModeDelivery
	case models.DeliveryModeDelivery, models.DeliveryModePickup:
	default:
		return nil, models.NewValidationError("deliveryMode", "must be delivery or pickup")
	}

	var err error
	if b.start, err = timeutil.ParseDate(req.StartDate); err != nil {
		return nil, models.NewValidationError("startDate", err.Error())
	}
	if b.end, err = timeutil.ParseDate(req.EndDate); err != nil {
		return nil, models.NewValidationError("endDate", err.Error())
	}
	if _, err := billing.DayCount(b.start, b.end); err != nil {
		return nil, err
	}
	return b, nil
}

// bookingRate is the booked daily rate: the rate typed into the form when
// given, otherwise the product's list price
func bookingRate(req *models.BookingRequest, p *models.Product) (decimal.Decimal, error) {
	if !req.RentalRate.Supplied() {
		return p.PricePerDay, nil
	}
	rate, err := req.RentalRate.Parse("rentalRate")
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, models.NewValidationError("rentalRate", "must be greater than zero")
	}
	return rate, nil
}

// bookingDelivery is zero for pickups, otherwise the typed value or the
// product default
func bookingDelivery(req *models.BookingRequest, mode string, p *models.Product) (decimal.Decimal, error) {
	if mode == models.DeliveryModePickup {
		return decimal.Zero, nil
	}
	if !req.DeliveryCharges.Supplied() {
		return p.DeliveryCharges, nil
	}
	return req.DeliveryCharges.Parse("deliveryCharges")
}

// CreateRental books a product, renders the agreement from the active
// template and persists both in one insert. Nothing is stored when any step
// fails. Notification, archiving and events run after the response.
func (s *RentalService) CreateRental(ctx context.Context, req *models.BookingRequest) (*models.Rental, error) {
	b, err := validateBooking(req)
	if err != nil {
		return nil, err
	}

	product, err := s.Products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.Templates.GetActive(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrTemplateMissing
	}
	if err != nil {
		return nil, err
	}

	rate, err := bookingRate(req, product)
	if err != nil {
		return nil, err
	}
	delivery, err := bookingDelivery(req, b.deliveryMode, product)
	if err != nil {
		return nil, err
	}
	quote, err := billing.NewQuote(b.start, b.end, rate, delivery, product.SecurityDeposit)
	if err != nil {
		return nil, err
	}
	if quote.RentalTotal.GreaterThan(models.MaxTotalCharge) {
		return nil, models.NewValidationError("endDate", "rental total exceeds "+models.MaxTotalCharge.String())
	}

	now := s.Now()
	html, err := agreement.Render(tpl.Content, agreement.Build(agreement.Details{
		ClientName:         b.clientName,
		ClientPhone:        b.clientPhone,
		ClientAddress:      b.clientAddress,
		ProductName:        product.Name,
		ProductDescription: product.Description,
		SerialNumber:       b.serialNumber,
		PickupDate:         b.start,
		EndDate:            b.end,
		AgreementDate:      now,
		Quote:              quote,
	}, s.Format))
	if err != nil {
		return nil, err
	}

	rental := &models.Rental{
		Reference:       uuid.NewString(),
		ClientName:      b.clientName,
		ClientPhone:     b.clientPhone,
		ClientEmail:     b.clientEmail,
		ClientAddress:   b.clientAddress,
		ProductID:       product.ID,
		StartDate:       b.start,
		EndDate:         b.end,
		DeliveryMode:    b.deliveryMode,
		SecurityDeposit: quote.SecurityDeposit,
		DeliveryCharges: quote.DeliveryCharges,
		RentalRate:      quote.Rate,
		TotalCharge:     quote.RentalTotal,
		SerialNumber:    b.serialNumber,
		AgreementHTML:   html,
	}
	if err := s.Rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	rental.Product = product
	rental.Annotate(duedate.WindowsAt(now), now)
	metrics.AgreementsGenerated.Inc()

	s.log.Info().Int("rental_id", rental.ID).Int("product_id", product.ID).
		Int("days", quote.Days).Str("total", quote.RentalTotal.String()).Msg("rental booked")

	booked := *rental
	s.Dispatch(func() { s.afterCreate(&booked) })
	return rental, nil
}

func (s *RentalService) afterCreate(r *models.Rental) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	s.invalidateStats(ctx)
	if s.Notifier != nil {
		s.sideEffect("notify", r, s.Notifier.SendAgreement(ctx, r))
	}
	if s.Archive != nil {
		s.sideEffect("archive", r, s.Archive.Put(ctx, r))
	}
	s.publish(ctx, events.RentalCreated, r)
}

func (s *RentalService) sideEffect(kind string, r *models.Rental, err error) {
	if err == nil {
		return
	}
	metrics.SideEffectFailures.WithLabelValues(kind).Inc()
	s.log.Warn().Err(err).Str("kind", kind).Int("rental_id", r.ID).Msg("post-booking step failed")
}

func (s *RentalService) publish(ctx context.Context, typ string, r *models.Rental) {
	if s.Events == nil {
		return
	}
	s.sideEffect("event", r, s.Events.Publish(ctx, events.NewRentalEvent(typ, r, s.Now())))
}

func (s *RentalService) invalidateStats(ctx context.Context) {
	if s.Stats != nil {
		s.Stats.Invalidate(ctx, timeutil.FormatDate(s.Now()))
	}
}

// GetRental returns a rental with its product, agreement and live status
func (s *RentalService) GetRental(ctx context.Context, id int) (*models.Rental, error) {
	r, err := s.Rentals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	r.Annotate(duedate.WindowsAt(now), now)
	return r, nil
}

// GetAgreement looks a rental up by its public reference
func (s *RentalService) GetAgreement(ctx context.Context, reference string) (*models.Rental, error) {
	if _, err := uuid.Parse(reference); err != nil {
		return nil, fmt.Errorf("agreement %q: %w", reference, models.ErrNotFound)
	}
	r, err := s.Rentals.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	r.Annotate(duedate.WindowsAt(now), now)
	return r, nil
}

// ListRentals returns one page of rentals. status narrows by due-date
// window, evaluated against the current business day.
func (s *RentalService) ListRentals(ctx context.Context, f models.RentalFilter, status duedate.Filter) (*models.RentalPage, error) {
	f.Page = f.Page.Normalize(defaultPageSize, maxPageSize)
	rentals, total, err := s.list(ctx, f, status)
	if err != nil {
		return nil, err
	}
	return &models.RentalPage{
		Rentals:      rentals,
		TotalPages:   f.Page.TotalPages(total),
		CurrentPage:  f.Page.Page,
		TotalRentals: total,
	}, nil
}

// ExportRentals returns every rental matching the filter, unpaginated
func (s *RentalService) ExportRentals(ctx context.Context, f models.RentalFilter, status duedate.Filter) ([]*models.Rental, error) {
	f.Page = models.Pagination{}
	rentals, _, err := s.list(ctx, f, status)
	return rentals, err
}

func (s *RentalService) list(ctx context.Context, f models.RentalFilter, status duedate.Filter) ([]*models.Rental, int, error) {
	now := s.Now()
	w := duedate.WindowsAt(now)
	from, to := w.Bounds(status)
	f.EndFrom = laterOf(f.EndFrom, from)
	f.EndBefore = earlierOf(f.EndBefore, to)

	rentals, total, err := s.Rentals.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range rentals {
		r.Annotate(w, now)
	}
	return rentals, total, nil
}

func laterOf(a, b *time.Time) *time.Time {
	if a == nil || (b != nil && b.After(*a)) {
		return b
	}
	return a
}

func earlierOf(a, b *time.Time) *time.Time {
	if a == nil || (b != nil && b.Before(*a)) {
		return b
	}
	return a
}

// ExtendRental moves the end date. The stored agreement and the booked
// amounts stay exactly as they were at booking time.
func (s *RentalService) ExtendRental(ctx context.Context, id int, req *models.ExtendRequest) (*models.Rental, error) {
	newEnd, err := timeutil.ParseDate(req.NewEndDate)
	if err != nil {
		return nil, models.NewValidationError("newEndDate", err.Error())
	}

	r, err := s.Rentals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !newEnd.After(r.StartDate) {
		return nil, models.NewValidationError("newEndDate", "end date must be after start date")
	}

	if err := s.Rentals.UpdateEndDate(ctx, id, newEnd); err != nil {
		return nil, err
	}
	r.EndDate = newEnd

	now := s.Now()
	r.Annotate(duedate.WindowsAt(now), now)
	metrics.RentalsExtended.Inc()
	s.log.Info().Int("rental_id", id).Str("end_date", timeutil.FormatDate(newEnd)).Msg("rental extended")

	extended := *r
	s.Dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		s.invalidateStats(ctx)
		s.publish(ctx, events.RentalExtended, &extended)
	})
	return r, nil
}

// DeleteRental removes a rental and its agreement
func (s *RentalService) DeleteRental(ctx context.Context, id int) error {
	r, err := s.Rentals.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Rentals.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("rental_id", id).Msg("rental deleted")

	s.Dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		s.invalidateStats(ctx)
		s.publish(ctx, events.RentalDeleted, r)
	})
	return nil
}
