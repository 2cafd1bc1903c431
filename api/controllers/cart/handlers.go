package cart

import (
	"net/http"

	"github.com/oakmont/storefront/api/middleware"
	"github.com/oakmont/storefront/api/responses"
	"github.com/oakmont/storefront/api/validators"
	"github.com/oakmont/storefront/internal/cart"
	pkgerrors "github.com/oakmont/storefront/pkg/errors"
	"github.com/oakmont/storefront/pkg/logger"
)

const changedCartMessage = "Some items in your cart were updated, please review before checkout"
const degradedCartMessage = "We could not verify your cart right now, prices may be out of date"

// Sync normalizes and audits the submitted cart, persists the result as the
// session's working cart, and returns the authoritative view. The audit is
// best-effort: a catalog outage degrades the response instead of failing it,
// so the shopper never loses their cart to a backend fault.
func Sync(svc cart.Service, store cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)

		var req syncRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		normalized := svc.Normalize(req.Cart)
		if len(normalized.Dropped) > 0 && logg != nil {
			logg.Info(logg.WithField(ctx, "dropped", len(normalized.Dropped)), "cart normalize dropped malformed lines")
		}

		diffed, err := svc.Diff(ctx, normalized.Lines)
		if err != nil {
			// Catalog unreachable. Keep the normalized cart so nothing is
			// lost, but flag the response as unaudited.
			if logg != nil {
				logg.Error(ctx, "cart audit degraded", err)
			}
			if saveErr := store.Save(ctx, sessionID, normalized.Lines); saveErr != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, saveErr, "failed to save cart"))
				return
			}
			total, _ := normalized.Total.Float64()
			responses.WriteSuccess(w, syncResponse{
				OK:      false,
				Cart:    emptyAsSlice(normalized.Lines),
				Total:   total,
				Message: degradedCartMessage,
			})
			return
		}

		if err := store.Save(ctx, sessionID, diffed.Lines); err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save cart"))
			return
		}

		total, _ := diffed.Total.Float64()
		resp := syncResponse{
			OK:    true,
			Cart:  emptyAsSlice(diffed.Lines),
			Total: total,
		}
		if diffed.HasChanges {
			resp.Message = changedCartMessage
		}
		responses.WriteSuccess(w, resp)
	}
}

// Validate runs the collect-all pre-submit check without touching the stored
// cart. Clients call it right before checkout to show what would change.
func Validate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req validateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		diffed, err := svc.Diff(ctx, req.Cart)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable"))
			return
		}

		total, _ := diffed.Total.Float64()
		responses.WriteSuccess(w, validateResponse{
			ValidatedCart:     emptyAsSlice(diffed.Lines),
			RecalculatedTotal: total,
			RemovedItems:      emptyAsSlice(diffed.Removed),
			UpdatedItems:      emptyAsSlice(diffed.Updated),
			HasChanges:        diffed.HasChanges,
		})
	}
}

// Fetch returns the session's stored working cart, empty if none exists.
func Fetch(store cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)

		lines, err := store.Load(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart"))
			return
		}
		responses.WriteSuccess(w, fetchResponse{Cart: emptyAsSlice(lines)})
	}
}

// emptyAsSlice keeps JSON arrays as [] instead of null.
func emptyAsSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
