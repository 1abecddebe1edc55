package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/billing"
	"rental-backend/internal/duedate"
	"rental-backend/internal/events"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

const testTemplate = `Hello {{CLIENT_NAME}}, total: {{TOTAL_CHARGE}} | rate {{RENTAL_RATE}} | deposit {{SECURITY_DEPOSIT}} | delivery {{DELIVERY_CHARGES}} | {{PICKUP_DATE}} to {{END_DATE}} | addr[{{CLIENT_ADDRESS}}] | {{WITNESS}}`

var testNow = time.Date(2024, 1, 10, 15, 0, 0, 0, timeutil.Location)

type rentalFixture struct {
	svc       *RentalService
	products  *MockProductStore
	rentals   *MockRentalStore
	templates *MockTemplateStore
	rec       *recorder
}

func newRentalFixture() *rentalFixture {
	f := &rentalFixture{
		products:  &MockProductStore{},
		rentals:   &MockRentalStore{},
		templates: &MockTemplateStore{},
		rec:       newRecorder(),
	}
	f.svc = NewRentalService(f.products, f.rentals, f.templates, billing.Formatter{Currency: "Rs."})
	f.svc.Now = func() time.Time { return testNow }
	f.svc.Dispatch = inline
	f.svc.Notifier = f.rec
	f.svc.Archive = f.rec
	f.svc.Events = f.rec
	f.svc.Stats = f.rec
	return f
}

func wheelchair() *models.Product {
	return &models.Product{
		ID:              1,
		Name:            "Wheelchair",
		Description:     "Foldable",
		PricePerDay:     decimal.NewFromInt(100),
		SecurityDeposit: decimal.NewFromInt(500),
		DeliveryCharges: decimal.NewFromInt(50),
	}
}

func validBooking() *models.BookingRequest {
	return &models.BookingRequest{
		ClientName:   "Asha",
		ClientPhone:  "9876543210",
		ClientEmail:  "asha@example.com",
		ProductID:    1,
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-04",
		SerialNumber: "WC-7",
	}
}

func (f *rentalFixture) expectBooking() *models.Rental {
	created := &models.Rental{}
	f.products.On("Get", mock.Anything, 1).Return(wheelchair(), nil)
	f.templates.On("GetActive", mock.Anything).Return(&models.AgreementTemplate{ID: 1, Content: testTemplate}, nil)
	f.rentals.On("Create", mock.Anything, mock.AnythingOfType("*models.Rental")).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*models.Rental)
			r.ID = 42
			*created = *r
		}).Return(nil)
	return created
}

func TestCreateRental_RendersAndStoresAgreement(t *testing.T) {
	f := newRentalFixture()
	created := f.expectBooking()

	r, err := f.svc.CreateRental(context.Background(), validBooking())
	require.NoError(t, err)

	assert.Equal(t, 42, r.ID)
	assert.Equal(t,
		"Hello Asha, total: Rs.300/- | rate Rs.100/- per day | deposit Rs.500/- | delivery Rs.50/- | 1/1/2024 to 4/1/2024 | addr[] | {{WITNESS}}",
		created.AgreementHTML)
	assert.True(t, created.TotalCharge.Equal(decimal.NewFromInt(300)))
	assert.True(t, created.RentalRate.Equal(decimal.NewFromInt(100)))
	assert.True(t, created.SecurityDeposit.Equal(decimal.NewFromInt(500)))
	assert.True(t, created.DeliveryCharges.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, models.DeliveryModeDelivery, created.DeliveryMode)
	assert.Len(t, created.Reference, 36)
	assert.Equal(t, duedate.StatusOverdue, r.Status)
	assert.Equal(t, "Wheelchair", r.ProductName())

	require.Len(t, f.rec.agreements, 1)
	assert.Equal(t, created.AgreementHTML, f.rec.agreements[0].AgreementHTML)
	assert.Len(t, f.rec.archived, 1)
	require.Len(t, f.rec.events, 1)
	assert.Equal(t, events.RentalCreated, f.rec.events[0].Type)
	assert.Equal(t, []string{"2024-01-10"}, f.rec.invalidated)
}

func TestCreateRental_PickupAndManualRate(t *testing.T) {
	f := newRentalFixture()
	created := f.expectBooking()

	req := validBooking()
	req.DeliveryMode = "pickup"
	req.DeliveryCharges = "75"
	req.RentalRate = "80"

	_, err := f.svc.CreateRental(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, created.DeliveryCharges.IsZero())
	assert.True(t, created.RentalRate.Equal(decimal.NewFromInt(80)))
	assert.True(t, created.TotalCharge.Equal(decimal.NewFromInt(240)))
	assert.Contains(t, created.AgreementHTML, "delivery Rs.0/-")
}

func TestCreateRental_TemplateMissing(t *testing.T) {
	f := newRentalFixture()
	f.products.On("Get", mock.Anything, 1).Return(wheelchair(), nil)
	f.templates.On("GetActive", mock.Anything).Return(nil, models.ErrNotFound)

	_, err := f.svc.CreateRental(context.Background(), validBooking())

	assert.True(t, errors.Is(err, models.ErrTemplateMissing))
	f.rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.rec.agreements)
}

func TestCreateRental_ProductNotFound(t *testing.T) {
	f := newRentalFixture()
	f.products.On("Get", mock.Anything, 1).Return(nil, models.ErrNotFound)

	_, err := f.svc.CreateRental(context.Background(), validBooking())

	assert.True(t, errors.Is(err, models.ErrNotFound))
	f.templates.AssertNotCalled(t, "GetActive", mock.Anything)
}

func TestCreateRental_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *models.BookingRequest)
		field string
	}{
		{"missing name", func(r *models.BookingRequest) { r.ClientName = "  " }, "clientName"},
		{"missing phone", func(r *models.BookingRequest) { r.ClientPhone = "" }, "clientPhone"},
		{"bad email", func(r *models.BookingRequest) { r.ClientEmail = "not-an-email" }, "clientEmail"},
		{"missing product", func(r *models.BookingRequest) { r.ProductID = 0 }, "productId"},
		{"bad start", func(r *models.BookingRequest) { r.StartDate = "01/01/2024" }, "startDate"},
		{"inverted dates", func(r *models.BookingRequest) { r.EndDate = "2023-12-30" }, "endDate"},
		{"same day", func(r *models.BookingRequest) { r.EndDate = r.StartDate }, "endDate"},
		{"bad mode", func(r *models.BookingRequest) { r.DeliveryMode = "drone" }, "deliveryMode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRentalFixture()
			req := validBooking()
			tt.edit(req)

			_, err := f.svc.CreateRental(context.Background(), req)

			var ve *models.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			f.products.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRental_RejectsBadAmounts(t *testing.T) {
	for _, rate := range []models.AmountInput{"-5", "abc", "0", "100.555", "1e15", "10000000000"} {
		f := newRentalFixture()
		f.products.On("Get", mock.Anything, 1).Return(wheelchair(), nil)
		f.templates.On("GetActive", mock.Anything).Return(&models.AgreementTemplate{Content: testTemplate}, nil)

		req := validBooking()
		req.RentalRate = rate
		_, err := f.svc.CreateRental(context.Background(), req)

		assert.True(t, errors.Is(err, models.ErrValidation), string(rate))
		f.rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCreateRental_RateWithTwoDecimalsMatchesAgreement(t *testing.T) {
	f := newRentalFixture()
	created := f.expectBooking()

	req := validBooking()
	req.RentalRate = "100.50"
	r, err := f.svc.CreateRental(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "301.5", created.TotalCharge.String())
	assert.Contains(t, r.AgreementHTML, "total: Rs.301.5/-")
	assert.Contains(t, r.AgreementHTML, "rate Rs.100.5/- per day")
}

func TestCreateRental_TotalBeyondColumnRange(t *testing.T) {
	f := newRentalFixture()
	f.products.On("Get", mock.Anything, 1).Return(wheelchair(), nil)
	f.templates.On("GetActive", mock.Anything).Return(&models.AgreementTemplate{Content: testTemplate}, nil)

	req := validBooking()
	req.RentalRate = "9999999999.99"
	req.EndDate = "2024-06-01"
	_, err := f.svc.CreateRental(context.Background(), req)

	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "endDate", ve.Field)
	f.rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRental_SideEffectFailureDoesNotFailBooking(t *testing.T) {
	f := newRentalFixture()
	f.expectBooking()
	f.rec.notifyErr = errors.New("smtp down")

	r, err := f.svc.CreateRental(context.Background(), validBooking())
	require.NoError(t, err)
	assert.Equal(t, 42, r.ID)
	assert.Len(t, f.rec.events, 1)
}

func TestExtendRental_KeepsAgreement(t *testing.T) {
	f := newRentalFixture()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, timeutil.Location)
	stored := &models.Rental{
		ID:            7,
		StartDate:     start,
		EndDate:       time.Date(2024, 1, 4, 0, 0, 0, 0, timeutil.Location),
		TotalCharge:   decimal.NewFromInt(300),
		AgreementHTML: "<p>frozen</p>",
	}
	newEnd := time.Date(2024, 1, 20, 0, 0, 0, 0, timeutil.Location)
	f.rentals.On("Get", mock.Anything, 7).Return(stored, nil)
	f.rentals.On("UpdateEndDate", mock.Anything, 7, newEnd).Return(nil)

	r, err := f.svc.ExtendRental(context.Background(), 7, &models.ExtendRequest{NewEndDate: "2024-01-20"})
	require.NoError(t, err)

	assert.True(t, r.EndDate.Equal(newEnd))
	assert.Equal(t, "<p>frozen</p>", r.AgreementHTML)
	assert.True(t, r.TotalCharge.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, duedate.StatusActive, r.Status)
	assert.Equal(t, 10, r.DaysRemaining)
	require.Len(t, f.rec.events, 1)
	assert.Equal(t, events.RentalExtended, f.rec.events[0].Type)
	f.rentals.AssertExpectations(t)
}

func TestExtendRental_EndBeforeStart(t *testing.T) {
	f := newRentalFixture()
	f.rentals.On("Get", mock.Anything, 7).Return(&models.Rental{
		ID:        7,
		StartDate: time.Date(2024, 1, 5, 0, 0, 0, 0, timeutil.Location),
	}, nil)

	_, err := f.svc.ExtendRental(context.Background(), 7, &models.ExtendRequest{NewEndDate: "2024-01-05"})

	assert.True(t, errors.Is(err, models.ErrValidation))
	f.rentals.AssertNotCalled(t, "UpdateEndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRentals_StatusWindow(t *testing.T) {
	f := newRentalFixture()
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, timeutil.Location)
	rows := []*models.Rental{{ID: 1, EndDate: today.AddDate(0, 0, -2)}}

	f.rentals.On("List", mock.Anything, mock.MatchedBy(func(fl models.RentalFilter) bool {
		return fl.EndFrom == nil && fl.EndBefore != nil && fl.EndBefore.Equal(today) &&
			fl.Page.Page == 1 && fl.Page.Limit == 10 && fl.Search == "asha"
	})).Return(rows, 21, nil)

	page, err := f.svc.ListRentals(context.Background(), models.RentalFilter{Search: "asha"}, duedate.FilterOverdue)
	require.NoError(t, err)

	assert.Equal(t, 21, page.TotalRentals)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, duedate.StatusOverdue, page.Rentals[0].Status)
	assert.Equal(t, -2, page.Rentals[0].DaysRemaining)
}

func TestListRentals_StatusNarrowsExplicitEndRange(t *testing.T) {
	f := newRentalFixture()
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, timeutil.Location)
	from := today.AddDate(0, 0, -30)
	before := today.AddDate(0, 0, 30)

	// overdue keeps the caller's lower bound and tightens the upper one to today
	f.rentals.On("List", mock.Anything, mock.MatchedBy(func(fl models.RentalFilter) bool {
		return fl.EndFrom != nil && fl.EndFrom.Equal(from) &&
			fl.EndBefore != nil && fl.EndBefore.Equal(today)
	})).Return([]*models.Rental{}, 0, nil).Once()
	_, err := f.svc.ListRentals(context.Background(), models.RentalFilter{EndFrom: &from, EndBefore: &before}, duedate.FilterOverdue)
	require.NoError(t, err)

	// a narrower caller range wins over the active window's open end
	early := today.AddDate(0, 0, 2)
	f.rentals.On("List", mock.Anything, mock.MatchedBy(func(fl models.RentalFilter) bool {
		return fl.EndFrom != nil && fl.EndFrom.Equal(today) &&
			fl.EndBefore != nil && fl.EndBefore.Equal(early)
	})).Return([]*models.Rental{}, 0, nil).Once()
	_, err = f.svc.ListRentals(context.Background(), models.RentalFilter{EndFrom: &from, EndBefore: &early}, duedate.FilterActive)
	require.NoError(t, err)

	f.rentals.AssertExpectations(t)
}

func TestExportRentals_Unpaginated(t *testing.T) {
	f := newRentalFixture()
	f.rentals.On("List", mock.Anything, mock.MatchedBy(func(fl models.RentalFilter) bool {
		return fl.Page.Limit == 0
	})).Return([]*models.Rental{}, 0, nil)

	rows, err := f.svc.ExportRentals(context.Background(), models.RentalFilter{Page: models.Pagination{Page: 3, Limit: 5}}, duedate.FilterNone)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetAgreement_RejectsMalformedReference(t *testing.T) {
	f := newRentalFixture()

	_, err := f.svc.GetAgreement(context.Background(), "not-a-uuid")

	assert.True(t, errors.Is(err, models.ErrNotFound))
	f.rentals.AssertNotCalled(t, "GetByReference", mock.Anything, mock.Anything)
}

func TestDeleteRental(t *testing.T) {
	f := newRentalFixture()
	f.rentals.On("Get", mock.Anything, 3).Return(&models.Rental{ID: 3}, nil)
	f.rentals.On("Delete", mock.Anything, 3).Return(nil)

	require.NoError(t, f.svc.DeleteRental(context.Background(), 3))
	assert.Equal(t, events.RentalDeleted, f.rec.events[0].Type)

	f.rentals.On("Get", mock.Anything, 4).Return(nil, models.ErrNotFound)
	assert.True(t, errors.Is(f.svc.DeleteRental(context.Background(), 4), models.ErrNotFound))
}
