package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmont/storefront/api/responses"
	"github.com/oakmont/storefront/internal/catalog"
	"github.com/oakmont/storefront/pkg/db/models"
	pkgerrors "github.com/oakmont/storefront/pkg/errors"
	"github.com/oakmont/storefront/pkg/logger"
	"github.com/oakmont/storefront/pkg/pagination"
)

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toProductResponse(p models.Product) productResponse {
	price, _ := p.Price.Float64()
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		IsActive:    p.IsActive,
	}
}

// ProductList serves a paginated view of the active catalog.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pagination.Params{
			Page:  queryInt(r, "page"),
			Limit: queryInt(r, "limit"),
		}.Normalize()

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products"))
			return
		}

		out := productListResponse{
			Products: make([]productResponse, 0, len(page.Products)),
			Total:    page.Total,
			Page:     params.Page,
			Limit:    params.Limit,
		}
		for _, p := range page.Products {
			out.Products = append(out.Products, toProductResponse(p))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductGet serves a single catalog product by id.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product"))
			return
		}

		responses.WriteSuccess(w, toProductResponse(*product))
	}
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
