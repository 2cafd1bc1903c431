package orders

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmont/storefront/api/middleware"
	"github.com/oakmont/storefront/api/responses"
	"github.com/oakmont/storefront/api/validators"
	"github.com/oakmont/storefront/internal/cart"
	"github.com/oakmont/storefront/internal/checkout"
	ordersvc "github.com/oakmont/storefront/internal/orders"
	"github.com/oakmont/storefront/pkg/db/models"
	pkgerrors "github.com/oakmont/storefront/pkg/errors"
	"github.com/oakmont/storefront/pkg/logger"
)

// createOrderRequest binds the raw checkout payload. Field rules live in the
// checkout service so every rejection carries the same message shape; the
// binding layer only cares that the JSON parses.
type createOrderRequest struct {
	CustomerName  string      `json:"customer_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	PostalCode    string      `json:"postal_code"`
	Country       string      `json:"country"`
	PaymentMethod string      `json:"payment_method"`
	CardName      string      `json:"card_name"`
	CardNumber    string      `json:"card_number"`
	CardExpiry    string      `json:"card_expiry"`
	CardCVV       string      `json:"card_cvv"`
	Items         []cart.Line `json:"items"`
	Total         float64     `json:"total"`
}

type createOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	Total   float64   `json:"total"`
}

type orderLineResponse struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	UnitPrice float64    `json:"unit_price"`
	Qty       int        `json:"qty"`
	LineTotal float64    `json:"line_total"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Status        string              `json:"status"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	Total         float64             `json:"total"`
	Items         []orderLineResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Create runs the commit pipeline and answers 201 with the receipt.
func Create(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.Commit(ctx, checkout.Input{
			SessionID:     middleware.SessionIDFromContext(ctx),
			CustomerName:  req.CustomerName,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
			PaymentMethod: req.PaymentMethod,
			CardName:      req.CardName,
			CardNumber:    req.CardNumber,
			CardExpiry:    req.CardExpiry,
			CardCVV:       req.CardCVV,
			Items:         req.Items,
			DeclaredTotal: req.Total,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithOrderID(ctx, receipt.OrderID.String()), "order committed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			OrderID: receipt.OrderID,
			Total:   receipt.Total.InexactFloat64(),
		})
	}
}

// Get serves a persisted order with its line items.
func Get(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		order, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status.String(),
		Total:         order.Total.InexactFloat64(),
		Items:         make([]orderLineResponse, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
	}
	if order.PaymentMethod != nil {
		method := order.PaymentMethod.String()
		resp.PaymentMethod = &method
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderLineResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.InexactFloat64(),
			Qty:       item.Qty,
			LineTotal: item.LineTotal.InexactFloat64(),
		})
	}
	return resp
}
