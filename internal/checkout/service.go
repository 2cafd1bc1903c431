package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakmont/storefront/internal/cart"
	"github.com/oakmont/storefront/internal/orders"
	"github.com/oakmont/storefront/pkg/config"
	"github.com/oakmont/storefront/pkg/db/models"
	"github.com/oakmont/storefront/pkg/enums"
	pkgerrors "github.com/oakmont/storefront/pkg/errors"
	"github.com/oakmont/storefront/pkg/logger"
	"github.com/oakmont/storefront/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input is the ephemeral order request. It lives for one commit attempt and
// is never persisted as-is.
type Input struct {
	SessionID string

	CustomerName string
	Email        string
	Phone        string
	Address      string
	City         string
	PostalCode   string
	Country      string

	PaymentMethod string
	CardName      string
	CardNumber    string
	CardExpiry    string
	CardCVV       string

	Items         []cart.Line
	DeclaredTotal float64
}

// Receipt is returned to the client after a successful commit.
type Receipt struct {
	OrderID uuid.UUID
	Total   decimal.Decimal
}

// Service runs the full order commit pipeline: payload shape, form rules,
// strict cart validation, total reconciliation, persistence, cart clear.
type Service interface {
	Commit(ctx context.Context, input Input) (*Receipt, error)
}

type service struct {
	tx        txRunner
	carts     cart.Service
	repo      orders.Repository
	sessions  cart.SessionStore
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
	tolerance decimal.Decimal
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	carts cart.Service,
	repo orders.Repository,
	sessions cart.SessionStore,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:        tx,
		carts:     carts,
		repo:      repo,
		sessions:  sessions,
		logg:      logg,
		metrics:   m,
		tolerance: decimal.NewFromFloat(cfg.TotalTolerance),
	}, nil
}

func (s *service) Commit(ctx context.Context, input Input) (*Receipt, error) {
	started := time.Now()
	receipt, err := s.commit(ctx, input)
	if err != nil {
		s.metrics.ObserveDuration("rejected", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveDuration("committed", time.Since(started))
	s.metrics.IncCommit()
	return receipt, nil
}

func (s *service) commit(ctx context.Context, input Input) (*Receipt, error) {
	if len(input.Items) == 0 {
		s.metrics.IncFailure("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if input.CustomerName == "" || input.Email == "" {
		s.metrics.IncFailure("malformed_payload")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name, email and items are required")
	}

	if violations := validateForm(input); len(violations) > 0 {
		s.metrics.IncFailure("form_validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order form validation failed").
			WithDetails(map[string]any{"violations": violations})
	}

	validated, err := s.carts.ValidateStrict(ctx, input.Items)
	if err != nil {
		s.metrics.IncFailure("cart_validation")
		return nil, cartErrorToAPI(err)
	}

	declared := decimal.NewFromFloat(input.DeclaredTotal)
	if validated.Total.Sub(declared).Abs().GreaterThan(s.tolerance) {
		s.metrics.IncFailure("total_mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeCartSync, "order total no longer matches the current prices").
			WithDetails(map[string]any{
				"server_total": validated.Total.InexactFloat64(),
				"client_total": input.DeclaredTotal,
			})
	}

	order := s.buildOrder(input, validated)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		s.metrics.IncFailure("persistence")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	// The order is durable at this point; a failed cart clear is logged and
	// swallowed so the client still gets its receipt.
	s.clearWorkingCart(ctx, input.SessionID, order.ID)

	return &Receipt{OrderID: order.ID, Total: order.Total}, nil
}

func (s *service) buildOrder(input Input, validated *cart.Validated) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         optional(input.Phone),
		Address:       optional(input.Address),
		City:          optional(input.City),
		PostalCode:    optional(input.PostalCode),
		Country:       optional(input.Country),
		Status:        enums.OrderStatusPending,
		Total:         validated.Total,
	}

	if method, err := enums.ParsePaymentMethod(input.PaymentMethod); err == nil {
		order.PaymentMethod = &method
	}

	for _, line := range validated.Lines {
		qty := int(line.Quantity)
		unitPrice := decimal.NewFromFloat(line.Price)
		order.Items = append(order.Items, models.OrderLineItem{
			OrderID:   order.ID,
			ProductID: line.ProductRef,
			Name:      line.Name,
			UnitPrice: unitPrice,
			Qty:       qty,
			LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		})
	}

	return order
}

func (s *service) clearWorkingCart(ctx context.Context, sessionID string, orderID uuid.UUID) {
	if s.sessions == nil || sessionID == "" {
		return
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil && s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Error(ctx, "failed to clear working cart after commit", err)
	}
}

// cartErrorToAPI maps the tagged cart defect onto the HTTP error taxonomy.
// Resync-style defects get the cart-sync code so clients know to refresh.
func cartErrorToAPI(err error) error {
	typed := cart.AsError(err)
	if typed == nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart validation")
	}

	details := map[string]any{"kind": typed.Kind.String()}
	switch typed.Kind {
	case enums.CartIssueDuplicateProduct, enums.CartIssueProductNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeCartSync, err, typed.Message).WithDetails(details)
	case enums.CartIssueBackendFailure:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, typed.Message).WithDetails(details)
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
