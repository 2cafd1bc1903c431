package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/enums"
	pkgerrors "github.com/oakmont/storefront/pkg/errors"
)

type stubRepo struct {
	order   *models.Order
	findErr error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func TestGetByIDReturnsOrder(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	svc, err := NewService(&stubRepo{order: &models.Order{ID: id, CustomerName: "Ada"}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	order, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.ID != id {
		t.Fatalf("wrong order: %s", order.ID)
	}
}

func TestGetByIDMapsNotFound(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDWrapsBackendErrors(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubRepo{findErr: errors.New("connection reset")})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
