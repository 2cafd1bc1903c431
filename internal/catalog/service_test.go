package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/pagination"
)

type stubRepo struct {
	products map[uuid.UUID]*models.Product
	listErr  error
	findErr  error
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func TestFindByIDSnapshotsNameAndPrice(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, Name: "Ceylon Tea", Price: decimal.NewFromFloat(4.25), IsActive: true},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	product, err := svc.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if product.Name != "Ceylon Tea" || !product.Price.Equal(decimal.NewFromFloat(4.25)) {
		t.Fatalf("snapshot wrong: %+v", product)
	}
}

func TestGetReturnsFullRecord(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	description := "Single-origin loose leaf"
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, Name: "Ceylon Tea", Description: &description, Price: decimal.NewFromFloat(4.25), IsActive: true},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	record, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Description == nil || *record.Description != description || !record.IsActive {
		t.Fatalf("record incomplete: %+v", record)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByIDMapsRecordNotFound(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByIDWrapsBackendErrors(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")
	svc, err := NewService(&stubRepo{findErr: cause})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.FindByID(context.Background(), uuid.New())
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("backend fault must not look like a missing product")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestListReturnsTotal(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, Name: "Ceylon Tea", Price: decimal.NewFromFloat(4.25), IsActive: true},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	page, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Products) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
