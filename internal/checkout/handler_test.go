package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/server/respond"
)

func newCheckoutRouter(fake *fakeSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(&Service{Sessions: fake, BaseURL: "http://127.0.0.1:8000"}).RegisterRoutes(r.Group("/"))
	return r
}

func TestCreateCheckoutRedirectsWith303(t *testing.T) {
	r := newCheckoutRouter(&fakeSessions{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/create_checkout", nil))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "https://checkout.stripe.com/c/pay/cs_test_1" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestCreateCheckoutProviderFailure(t *testing.T) {
	r := newCheckoutRouter(&fakeSessions{newErr: errors.New("stripe down")})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/create_checkout", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var payload respond.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "checkout_failed" {
		t.Fatalf("unexpected code %q", payload.Error.Code)
	}
}

func TestCreateCheckoutRejectsGet(t *testing.T) {
	r := newCheckoutRouter(&fakeSessions{})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/create_checkout", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
