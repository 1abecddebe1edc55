package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	SKU             string          `json:"sku,omitempty"`
	PricePerDay     decimal.Decimal `json:"pricePerDay"`
	Stock           int             `json:"stock"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	DeliveryCharges decimal.Decimal `json:"deliveryCharges"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductRequest is used for create (all required fields) and partial update
// (nil / empty fields are left unchanged).
type ProductRequest struct {
	Name            *string     `json:"name"`
	Description     *string     `json:"description"`
	SKU             *string     `json:"sku"`
	PricePerDay     AmountInput `json:"pricePerDay"`
	Stock           *int        `json:"stock"`
	SecurityDeposit AmountInput `json:"securityDeposit"`
	DeliveryCharges AmountInput `json:"deliveryCharges"`
}

// ProductPage is one page of the product catalog
type ProductPage struct {
	Products      []*Product `json:"products"`
	TotalPages    int        `json:"totalPages"`
	CurrentPage   int        `json:"currentPage"`
	TotalProducts int        `json:"totalProducts"`
}
