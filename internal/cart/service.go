package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakmont/storefront/internal/catalog"
	"github.com/oakmont/storefront/pkg/config"
	"github.com/oakmont/storefront/pkg/enums"
)

// Human-readable reasons surfaced by the diff check. Clients display these
// verbatim next to the affected line.
const (
	ReasonInvalidItem  = "Invalid item data"
	ReasonUnavailable  = "Product no longer available"
	ReasonPriceUpdated = "Price updated"
)

// Validated is the output of strict validation: lines with catalog-sourced
// names/prices and integral quantities, plus the server-computed total.
type Validated struct {
	Lines []Line
	Total decimal.Decimal
}

// NormalizeResult carries the cleaned cart plus the lines that were dropped,
// so callers can log what the best-effort pass discarded.
type NormalizeResult struct {
	Lines   []Line
	Total   decimal.Decimal
	Dropped []Line
}

// RemovedItem reports a line the diff check excluded from the cart.
type RemovedItem struct {
	Item   Line   `json:"item"`
	Reason string `json:"reason"`
}

// UpdatedItem reports a price correction the diff check applied in place.
// Name is the client's claimed name so the client can locate the line.
type UpdatedItem struct {
	Name     string  `json:"name"`
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
	Reason   string  `json:"reason"`
}

// DiffResult is the collect-all validation outcome used pre-submit.
type DiffResult struct {
	Lines      []Line
	Total      decimal.Decimal
	Removed    []RemovedItem
	Updated    []UpdatedItem
	HasChanges bool
}

// Service owns cart hygiene and validation against the catalog.
type Service interface {
	// Normalize repairs a raw cart best-effort: drops malformed lines,
	// merges duplicate identity keys, floors quantities. Never fails.
	Normalize(lines []Line) NormalizeResult
	// ValidateStrict verifies every line against the catalog, failing on the
	// first defect with a tagged *Error. Used at commit time.
	ValidateStrict(ctx context.Context, lines []Line) (*Validated, error)
	// Diff runs the never-fail pre-submit check, collecting removals and
	// price corrections instead of aborting. Only catalog backend faults
	// surface as errors.
	Diff(ctx context.Context, lines []Line) (*DiffResult, error)
}

type service struct {
	lookup         catalog.Lookup
	priceCeiling   decimal.Decimal
	priceTolerance decimal.Decimal
	lookupTimeout  time.Duration
}

// NewService builds the cart service around the injected catalog lookup.
func NewService(lookup catalog.Lookup, cfg config.CheckoutConfig) (Service, error) {
	if lookup == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	return &service{
		lookup:         lookup,
		priceCeiling:   decimal.NewFromFloat(cfg.ManualPriceCeiling),
		priceTolerance: decimal.NewFromFloat(cfg.TotalTolerance),
		lookupTimeout:  cfg.CatalogTimeout,
	}, nil
}

func (s *service) Normalize(lines []Line) NormalizeResult {
	result := NormalizeResult{Total: decimal.Zero}

	indexByKey := map[string]int{}
	for _, line := range lines {
		if !line.complete() {
			result.Dropped = append(result.Dropped, line)
			continue
		}
		if idx, seen := indexByKey[line.Key()]; seen {
			result.Lines[idx].Quantity += line.Quantity
			continue
		}
		indexByKey[line.Key()] = len(result.Lines)
		result.Lines = append(result.Lines, line)
	}

	for i := range result.Lines {
		qty := math.Floor(result.Lines[i].Quantity)
		if math.IsNaN(qty) || qty < 1 {
			qty = 1
		}
		if qty > maxQty {
			qty = maxQty
		}
		result.Lines[i].Quantity = qty
		result.Total = result.Total.Add(lineTotal(result.Lines[i].Price, int(qty)))
	}
	result.Total = result.Total.Round(2)

	return result
}

func (s *service) ValidateStrict(ctx context.Context, lines []Line) (*Validated, error) {
	validated := &Validated{Total: decimal.Zero}
	seen := map[string]struct{}{}

	for _, line := range lines {
		if !line.complete() {
			return nil, newError(enums.CartIssueMissingField, "item name, quantity and price are required")
		}
		if _, dup := seen[line.Key()]; dup {
			return nil, newError(enums.CartIssueDuplicateProduct, fmt.Sprintf("duplicate cart line %q", line.Name))
		}
		seen[line.Key()] = struct{}{}

		qty, ok := line.integralQty()
		if !ok {
			return nil, newError(enums.CartIssueInvalidQuantity, fmt.Sprintf("quantity for %q must be a positive integer", line.Name))
		}

		var price decimal.Decimal
		if line.ProductRef != nil {
			product, err := s.findProduct(ctx, line)
			if err != nil {
				return nil, err
			}
			// Anti-tampering control: referenced lines always take the
			// catalog's name and price, whatever the client claimed.
			line.Name = product.Name
			line.Price, _ = product.Price.Float64()
			price = product.Price
		} else {
			price = decimal.NewFromFloat(line.Price)
			if price.LessThanOrEqual(decimal.Zero) || price.GreaterThan(s.priceCeiling) {
				return nil, newError(enums.CartIssueInvalidPrice, fmt.Sprintf("price for %q is outside the accepted range", line.Name))
			}
		}

		line.Quantity = float64(qty)
		validated.Lines = append(validated.Lines, line)
		validated.Total = validated.Total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	validated.Total = validated.Total.Round(2)
	return validated, nil
}

func (s *service) Diff(ctx context.Context, lines []Line) (*DiffResult, error) {
	result := &DiffResult{Total: decimal.Zero}

	for _, line := range lines {
		qty, qtyOK := line.integralQty()
		if !line.complete() || !qtyOK {
			result.Removed = append(result.Removed, RemovedItem{Item: line, Reason: ReasonInvalidItem})
			continue
		}

		price := decimal.NewFromFloat(line.Price)
		if line.ProductRef != nil {
			product, err := s.findProduct(ctx, line)
			if err != nil {
				if typed := AsError(err); typed != nil && typed.Kind == enums.CartIssueProductNotFound {
					result.Removed = append(result.Removed, RemovedItem{Item: line, Reason: ReasonUnavailable})
					continue
				}
				return nil, err
			}

			claimedName := line.Name
			claimed := decimal.NewFromFloat(line.Price)
			if claimed.Sub(product.Price).Abs().GreaterThan(s.priceTolerance) {
				newPrice, _ := product.Price.Float64()
				result.Updated = append(result.Updated, UpdatedItem{
					Name:     claimedName,
					OldPrice: line.Price,
					NewPrice: newPrice,
					Reason:   ReasonPriceUpdated,
				})
			}
			// Canonical renames are applied silently.
			line.Name = product.Name
			line.Price, _ = product.Price.Float64()
			price = product.Price
		}

		result.Lines = append(result.Lines, line)
		result.Total = result.Total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	result.Total = result.Total.Round(2)
	result.HasChanges = len(result.Removed) > 0 || len(result.Updated) > 0
	return result, nil
}

// findProduct resolves a referenced line against the catalog, tagging the two
// possible failure classes.
func (s *service) findProduct(ctx context.Context, line Line) (*catalog.Product, error) {
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	product, err := s.lookup.FindByID(ctx, *line.ProductRef)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, newError(enums.CartIssueProductNotFound, fmt.Sprintf("product %s no longer exists", line.ProductRef))
		}
		return nil, wrapError(enums.CartIssueBackendFailure, err, "catalog lookup failed")
	}
	return product, nil
}

func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}
