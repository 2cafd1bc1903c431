package cart

import (
	"math"

	"github.com/google/uuid"
)

// Line is a single working-cart entry as the client submits it. Quantity is a
// float on the wire so that fractional input can be detected and rejected (or
// floored by the normalizer) instead of failing JSON decoding.
//
// When ProductRef is set, Name and Price are client claims only; validation
// always replaces them with the catalog's canonical values.
type Line struct {
	ProductRef *uuid.UUID `json:"product_ref,omitempty"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Price      float64    `json:"price"`
}

// Key returns the identity used for duplicate detection and merging: the
// product reference when present, otherwise the exact name string.
func (l Line) Key() string {
	if l.ProductRef != nil {
		return l.ProductRef.String()
	}
	return l.Name
}

// maxQty caps a single line's quantity. Anything larger does not survive the
// float64 to int conversion intact.
const maxQty = math.MaxInt32

// complete reports whether the line carries all required fields.
func (l Line) complete() bool {
	return l.Name != "" && l.Quantity != 0 && l.Price != 0
}

// integralQty returns the quantity as an int when it is a positive integer
// small enough to convert without overflow. NaN and infinities fail the
// truncation and range checks respectively.
func (l Line) integralQty() (int, bool) {
	if l.Quantity <= 0 || l.Quantity > maxQty || l.Quantity != math.Trunc(l.Quantity) {
		return 0, false
	}
	return int(l.Quantity), true
}
