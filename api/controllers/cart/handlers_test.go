package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oakmont/storefront/api/middleware"
	cartsvc "github.com/oakmont/storefront/internal/cart"
	"github.com/oakmont/storefront/pkg/enums"
)

type stubCartService struct {
	normalize cartsvc.NormalizeResult
	diff      *cartsvc.DiffResult
	diffErr   error
	diffInput []cartsvc.Line
}

func (s *stubCartService) Normalize(lines []cartsvc.Line) cartsvc.NormalizeResult {
	if s.normalize.Lines == nil {
		return cartsvc.NormalizeResult{Lines: lines, Total: s.normalize.Total}
	}
	return s.normalize
}

func (s *stubCartService) ValidateStrict(ctx context.Context, lines []cartsvc.Line) (*cartsvc.Validated, error) {
	return nil, errors.New("not used")
}

func (s *stubCartService) Diff(ctx context.Context, lines []cartsvc.Line) (*cartsvc.DiffResult, error) {
	s.diffInput = lines
	if s.diffErr != nil {
		return nil, s.diffErr
	}
	return s.diff, nil
}

type stubStore struct {
	saved   map[string][]cartsvc.Line
	loaded  []cartsvc.Line
	loadErr error
	saveErr error
}

func newStubStore() *stubStore {
	return &stubStore{saved: map[string][]cartsvc.Line{}}
}

func (s *stubStore) Load(ctx context.Context, sessionID string) ([]cartsvc.Line, error) {
	return s.loaded, s.loadErr
}

func (s *stubStore) Save(ctx context.Context, sessionID string, lines []cartsvc.Line) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[sessionID] = lines
	return nil
}

func (s *stubStore) Clear(ctx context.Context, sessionID string) error {
	delete(s.saved, sessionID)
	return nil
}

func sessionRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestSyncSavesAuditedCart(t *testing.T) {
	service := &stubCartService{
		diff: &cartsvc.DiffResult{
			Lines: []cartsvc.Line{{Name: "Ceylon Tea", Quantity: 2, Price: 4.25}},
			Total: decimal.NewFromFloat(8.5),
		},
	}
	store := newStubStore()
	handler := Sync(service, store, nil)

	body := `{"cart":[{"name":"Ceylon Tea","quantity":2,"price":4.25}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/sync", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data syncResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.OK {
		t.Fatalf("expected ok response")
	}
	if envelope.Data.Total != 8.5 {
		t.Fatalf("total mismatch: %v", envelope.Data.Total)
	}
	if envelope.Data.Message != "" {
		t.Fatalf("clean sync must not carry a message: %q", envelope.Data.Message)
	}
	if len(store.saved["sess-1"]) != 1 {
		t.Fatalf("cart not saved for session")
	}
}

func TestSyncFlagsChangedCart(t *testing.T) {
	service := &stubCartService{
		diff: &cartsvc.DiffResult{
			Lines:      []cartsvc.Line{{Name: "Ceylon Tea", Quantity: 1, Price: 4.25}},
			Total:      decimal.NewFromFloat(4.25),
			Removed:    []cartsvc.RemovedItem{{Item: cartsvc.Line{Name: "Gone"}, Reason: cartsvc.ReasonUnavailable}},
			HasChanges: true,
		},
	}
	handler := Sync(service, newStubStore(), nil)

	body := `{"cart":[{"name":"Ceylon Tea","quantity":1,"price":4.25},{"name":"Gone","quantity":1,"price":2}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/sync", body))

	var envelope struct {
		Data syncResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message == "" {
		t.Fatalf("changed cart must carry a message")
	}
}

func TestSyncDegradesOnCatalogOutage(t *testing.T) {
	service := &stubCartService{
		diffErr: &cartsvc.Error{Kind: enums.CartIssueBackendFailure, Message: "catalog lookup failed"},
	}
	store := newStubStore()
	handler := Sync(service, store, nil)

	body := `{"cart":[{"name":"Ceylon Tea","quantity":2,"price":4.25}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/sync", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("outage must not fail the sync, got %d", resp.Code)
	}

	var envelope struct {
		Data syncResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OK {
		t.Fatalf("degraded sync must report ok=false")
	}
	if envelope.Data.Message == "" {
		t.Fatalf("degraded sync must carry a message")
	}
	if len(store.saved["sess-1"]) != 1 {
		t.Fatalf("normalized cart not kept during outage")
	}
}

func TestSyncRejectsMalformedBody(t *testing.T) {
	handler := Sync(&stubCartService{}, newStubStore(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/sync", `{"cart":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestValidateReportsChangesWithoutSaving(t *testing.T) {
	service := &stubCartService{
		diff: &cartsvc.DiffResult{
			Lines: []cartsvc.Line{{Name: "Ceylon Tea", Quantity: 1, Price: 4.25}},
			Total: decimal.NewFromFloat(4.25),
			Updated: []cartsvc.UpdatedItem{
				{Name: "Tea", OldPrice: 3.5, NewPrice: 4.25, Reason: cartsvc.ReasonPriceUpdated},
			},
			HasChanges: true,
		},
	}
	store := newStubStore()
	handler := Validate(service, nil)

	body := `{"cart":[{"name":"Tea","quantity":1,"price":3.5}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/validate", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data validateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.HasChanges || len(envelope.Data.UpdatedItems) != 1 {
		t.Fatalf("changes not reported: %+v", envelope.Data)
	}
	if envelope.Data.RecalculatedTotal != 4.25 {
		t.Fatalf("total mismatch: %v", envelope.Data.RecalculatedTotal)
	}
	if len(store.saved) != 0 {
		t.Fatalf("validate must not write the stored cart")
	}
}

func TestValidateFailsOnCatalogOutage(t *testing.T) {
	service := &stubCartService{
		diffErr: &cartsvc.Error{Kind: enums.CartIssueBackendFailure, Message: "catalog lookup failed"},
	}
	handler := Validate(service, nil)

	body := `{"cart":[{"name":"Tea","quantity":1,"price":3.5}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/validate", body))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestFetchReturnsEmptyCart(t *testing.T) {
	handler := Fetch(newStubStore(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"cart":[]`) {
		t.Fatalf("empty cart must serialize as []: %s", resp.Body.String())
	}
}
