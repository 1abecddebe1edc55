package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"rental-backend/internal/events"
	"rental-backend/internal/models"
)

type MockProductStore struct{ mock.Mock }

func (m *MockProductStore) Create(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) List(ctx context.Context, search string, page models.Pagination) ([]*models.Product, int, error) {
	args := m.Called(ctx, search, page)
	list, _ := args.Get(0).([]*models.Product)
	return list, args.Int(1), args.Error(2)
}

func (m *MockProductStore) Update(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockRentalStore struct{ mock.Mock }

func (m *MockRentalStore) Create(ctx context.Context, r *models.Rental) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRentalStore) Get(ctx context.Context, id int) (*models.Rental, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*models.Rental); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRentalStore) GetByReference(ctx context.Context, reference string) (*models.Rental, error) {
	args := m.Called(ctx, reference)
	if r, ok := args.Get(0).(*models.Rental); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRentalStore) List(ctx context.Context, f models.RentalFilter) ([]*models.Rental, int, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*models.Rental)
	return list, args.Int(1), args.Error(2)
}

func (m *MockRentalStore) ListEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Rental, error) {
	args := m.Called(ctx, from, to)
	list, _ := args.Get(0).([]*models.Rental)
	return list, args.Error(1)
}

func (m *MockRentalStore) CountEndingFrom(ctx context.Context, from time.Time) (int, error) {
	args := m.Called(ctx, from)
	return args.Int(0), args.Error(1)
}

func (m *MockRentalStore) CountEndingBefore(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

func (m *MockRentalStore) UpdateEndDate(ctx context.Context, id int, endDate time.Time) error {
	return m.Called(ctx, id, endDate).Error(0)
}

func (m *MockRentalStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockTemplateStore struct{ mock.Mock }

func (m *MockTemplateStore) GetActive(ctx context.Context) (*models.AgreementTemplate, error) {
	args := m.Called(ctx)
	if t, ok := args.Get(0).(*models.AgreementTemplate); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateStore) Save(ctx context.Context, content string) (*models.AgreementTemplate, error) {
	args := m.Called(ctx, content)
	if t, ok := args.Get(0).(*models.AgreementTemplate); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.User)
	return list, args.Error(1)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, id int, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// recorder captures downstream side effects
type recorder struct {
	mu          sync.Mutex
	agreements  []*models.Rental
	archived    []*models.Rental
	events      []events.Event
	invalidated []string
	cached      map[string][]byte
	notifyErr   error
}

func newRecorder() *recorder {
	return &recorder{cached: map[string][]byte{}}
}

func (r *recorder) SendAgreement(ctx context.Context, rt *models.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agreements = append(r.agreements, rt)
	return r.notifyErr
}

func (r *recorder) Put(ctx context.Context, rt *models.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived = append(r.archived, rt)
	return nil
}

func (r *recorder) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Get(ctx context.Context, day string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.cached[day]
	return data, ok
}

func (r *recorder) Set(ctx context.Context, day string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached[day] = data
}

func (r *recorder) Invalidate(ctx context.Context, day string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, day)
	delete(r.cached, day)
}

// inline runs dispatched side effects synchronously
func inline(f func()) { f() }
