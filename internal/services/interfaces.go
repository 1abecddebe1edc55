package services

import (
	"context"
	"time"

	"rental-backend/internal/events"
	"rental-backend/internal/models"
)

// Storage contracts, satisfied by the pgx repositories

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context, search string, page models.Pagination) ([]*models.Product, int, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type RentalStore interface {
	Create(ctx context.Context, r *models.Rental) error
	Get(ctx context.Context, id int) (*models.Rental, error)
	GetByReference(ctx context.Context, reference string) (*models.Rental, error)
	List(ctx context.Context, f models.RentalFilter) ([]*models.Rental, int, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Rental, error)
	CountEndingFrom(ctx context.Context, from time.Time) (int, error)
	CountEndingBefore(ctx context.Context, before time.Time) (int, error)
	UpdateEndDate(ctx context.Context, id int, endDate time.Time) error
	Delete(ctx context.Context, id int) error
}

type TemplateStore interface {
	GetActive(ctx context.Context) (*models.AgreementTemplate, error)
	Save(ctx context.Context, content string) (*models.AgreementTemplate, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
	Delete(ctx context.Context, id int) error
}

// Downstream collaborators. All optional; failures never fail a request.

type AgreementNotifier interface {
	SendAgreement(ctx context.Context, r *models.Rental) error
}

type AgreementArchiver interface {
	Put(ctx context.Context, r *models.Rental) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type StatsCache interface {
	Get(ctx context.Context, day string) ([]byte, bool)
	Set(ctx context.Context, day string, data []byte)
	Invalidate(ctx context.Context, day string)
}
