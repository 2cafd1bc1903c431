package cart

import (
	"github.com/oakmont/storefront/internal/cart"
)

type syncRequest struct {
	Cart []cart.Line `json:"cart"`
}

type validateRequest struct {
	Cart []cart.Line `json:"cart"`
}
