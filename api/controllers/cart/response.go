package cart

import (
	"github.com/oakmont/storefront/internal/cart"
)

type syncResponse struct {
	OK      bool        `json:"ok"`
	Cart    []cart.Line `json:"cart"`
	Total   float64     `json:"total"`
	Message string      `json:"message,omitempty"`
}

type validateResponse struct {
	ValidatedCart     []cart.Line        `json:"validated_cart"`
	RecalculatedTotal float64            `json:"recalculated_total"`
	RemovedItems      []cart.RemovedItem `json:"removed_items"`
	UpdatedItems      []cart.UpdatedItem `json:"updated_items"`
	HasChanges        bool               `json:"has_changes"`
}

type fetchResponse struct {
	Cart []cart.Line `json:"cart"`
}
