package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/pagination"
)

// ErrNotFound is returned when a product id does not resolve. It is a normal
// lookup outcome, not a backend fault; callers must branch on it explicitly.
var ErrNotFound = errors.New("product not found")

// Product is the canonical name/price snapshot handed to cart validation.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// ProductPage wraps a catalog listing with its total row count.
type ProductPage struct {
	Products []models.Product
	Total    int64
}

// Lookup is the capability cart validation depends on. Implementations
// return ErrNotFound for unknown ids and wrap any other fault.
type Lookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// Service exposes read-only catalog access.
type Service interface {
	Lookup
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params) (*ProductPage, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the full product record for the fetch path.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return record, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Product{
		ID:    record.ID,
		Name:  record.Name,
		Price: record.Price,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductPage{Products: products, Total: total}, nil
}
