package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beij-labs/beijshop/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestGetProduct_ServerMessageOnError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Product not found"})
	}))

	_, err := c.GetProduct(context.Background(), "X")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if err.Error() != "Product not found" {
		t.Fatalf("error message = %q, want %q", err.Error(), "Product not found")
	}
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("errors.Is(err, ErrNotFound) = false for %v", err)
	}
}

func TestDo_FallbackMessageWhenBodyUnparseable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))

	_, err := c.Login(context.Background(), "user", "pw", false)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *core.APIError, got %T", err)
	}
	if apiErr.Message != "Login failed" {
		t.Fatalf("message = %q, want fallback %q", apiErr.Message, "Login failed")
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", apiErr.StatusCode)
	}
}

func TestLogin_DecodesResponse(t *testing.T) {
	var gotBody loginRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(core.LoginResponse{
			User:      core.User{UserID: "u1", Username: "ada", Email: "ada@example.com"},
			Token:     "tok-1",
			ExpiresIn: 3600,
		})
	}))

	resp, err := c.Login(context.Background(), "ada", "secret", true)
	if err != nil {
		t.Fatalf("Login: unexpected error: %v", err)
	}
	if resp.Token != "tok-1" || resp.User.UserID != "u1" {
		t.Fatalf("Login: got %+v", resp)
	}
	if gotBody.UsernameOrEmail != "ada" || !gotBody.RememberMe {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestLogout_SendsBearerHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.Logout(context.Background(), "tok-9"); err != nil {
		t.Fatalf("Logout: unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-9" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestSaveItem_AdoptsReturnedList(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/api/v1/users/u1/saved-items/P7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(core.SavedItemsResponse{SavedItemIDs: []string{"P3", "P7"}})
	}))

	ids, err := c.SaveItem(context.Background(), "u1", "P7")
	if err != nil {
		t.Fatalf("SaveItem: unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "P3" || ids[1] != "P7" {
		t.Fatalf("SaveItem: got %v", ids)
	}
}

func TestGetRecommendations_QueryParams(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("exclude_product_id") != "P1" {
			t.Errorf("exclude_product_id = %q", q.Get("exclude_product_id"))
		}
		if q.Get("limit") != "4" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		_ = json.NewEncoder(w).Encode([]core.Product{{ProductID: "P2"}})
	}))

	products, err := c.GetRecommendations(context.Background(), "u1", "P1", 4)
	if err != nil {
		t.Fatalf("GetRecommendations: unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ProductID != "P2" {
		t.Fatalf("GetRecommendations: got %v", products)
	}
}

func TestGetRecommendations_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // immediately closed: all requests fail at the transport

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	// Best-effort operations still surface transport errors; the caller
	// decides to ignore them (see the session and cli packages).
	if _, err := c.GetRecommendations(context.Background(), "u1", "", 8); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestSearchPreviews_FilterAppendedToPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode([]core.ProductPreview{})
	}))

	if _, err := c.SearchPreviews(context.Background(), "usb cable", "Electronics&min=10"); err != nil {
		t.Fatalf("SearchPreviews: unexpected error: %v", err)
	}
	want := "/api/v1/previews/search/usb%20cable&Electronics&min=10"
	if gotPath != want {
		t.Fatalf("path = %q, want %q", gotPath, want)
	}
}

func TestObserver_ReceivesRequestOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]core.ProductPreview{})
	}))
	t.Cleanup(srv.Close)

	var seen []RequestObservation
	c, err := NewClient(Config{
		BaseURL:  srv.URL + "/api/v1",
		Observer: observerFunc(func(o RequestObservation) { seen = append(seen, o) }),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := c.GetProductPreviews(context.Background()); err != nil {
		t.Fatalf("GetProductPreviews: unexpected error: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("observations = %d, want 1", len(seen))
	}
	if seen[0].Operation != "get_previews" || !seen[0].Success || seen[0].Status != http.StatusOK {
		t.Fatalf("observation = %+v", seen[0])
	}
}

type observerFunc func(RequestObservation)

func (f observerFunc) ObserveRequest(o RequestObservation) { f(o) }
