package services

import (
	"context"
	"strings"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

type ProductService struct {
	Repo  ProductStore
	Stats StatsCache // optional
}

func NewProductService(repo ProductStore) *ProductService {
	return &ProductService{Repo: repo}
}

// CreateProduct validates and stores a new catalog entry
func (s *ProductService) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	p := &models.Product{}
	if err := applyProductRequest(p, req, true); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

// ListProducts returns one page of products, optionally filtered by a
// name or sku substring
func (s *ProductService) ListProducts(ctx context.Context, search string, page models.Pagination) (*models.ProductPage, error) {
	page = page.Normalize(defaultPageSize, maxPageSize)
	products, total, err := s.Repo.List(ctx, strings.TrimSpace(search), page)
	if err != nil {
		return nil, err
	}
	return &models.ProductPage{
		Products:      products,
		TotalPages:    page.TotalPages(total),
		CurrentPage:   page.Page,
		TotalProducts: total,
	}, nil
}

// UpdateProduct applies only the fields present in req. Existing rentals
// keep their booked prices.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *models.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductRequest(p, req, false); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct fails with ErrConflict while rentals reference the product
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *ProductService) invalidateStats(ctx context.Context) {
	if s.Stats != nil {
		s.Stats.Invalidate(ctx, timeutil.FormatDate(timeutil.Now()))
	}
}

// applyProductRequest copies req onto p. On create, name and price are
// required.
func applyProductRequest(p *models.Product, req *models.ProductRequest, create bool) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if (create || req.Name != nil) && p.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.SKU != nil {
		p.SKU = strings.TrimSpace(*req.SKU)
	}

	if req.PricePerDay.Supplied() {
		price, err := req.PricePerDay.Parse("pricePerDay")
		if err != nil {
			return err
		}
		if !price.IsPositive() {
			return models.NewValidationError("pricePerDay", "must be greater than zero")
		}
		p.PricePerDay = price
	} else if create {
		return models.NewValidationError("pricePerDay", "price per day is required")
	}

	if req.Stock != nil {
		if *req.Stock < 0 {
			return models.NewValidationError("stock", "must not be negative")
		}
		p.Stock = *req.Stock
	}
	if req.SecurityDeposit.Supplied() {
		d, err := req.SecurityDeposit.Parse("securityDeposit")
		if err != nil {
			return err
		}
		p.SecurityDeposit = d
	}
	if req.DeliveryCharges.Supplied() {
		d, err := req.DeliveryCharges.Parse("deliveryCharges")
		if err != nil {
			return err
		}
		p.DeliveryCharges = d
	}
	return nil
}
