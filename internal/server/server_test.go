package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quotegen/internal/assets"
	"quotegen/internal/config"
	"quotegen/internal/ident"
	"quotegen/internal/quote"
	"quotegen/internal/render"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gen, err := ident.NewGenerator(1)
	if err != nil {
		t.Fatal(err)
	}
	renderer := render.New(assets.NewDirStore(t.TempDir()), zap.NewNop(), render.Options{})
	return New(config.Default(), renderer, gen, zap.NewNop())
}

func testDocument() *quote.Document {
	return &quote.Document{
		Number:    "Q-2026-042",
		CreatedAt: time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		Client:    quote.Contact{Name: "Jane Doe"},
		Items: []quote.LineItem{
			{
				Name:      "Fence Panel",
				Quantity:  decimal.RequireFromString("10"),
				UnitPrice: decimal.RequireFromString("25"),
			},
		},
		Company: quote.Company{Name: "Acme Fencing"},
	}
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %q, want ok", w.Body.String())
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/v1/quotes/render", testDocument())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", got)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "quote_Q-2026-042.pdf") {
		t.Errorf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF buffer")
	}
}

func TestRenderEndpointAssignsNumber(t *testing.T) {
	s := testServer(t)
	doc := testDocument()
	doc.Number = ""

	w := postJSON(t, s, "/v1/quotes/render", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "quote_Q-") {
		t.Errorf("disposition = %q, want generated Q- number", w.Header().Get("Content-Disposition"))
	}
}

func TestRenderEndpointValidation(t *testing.T) {
	s := testServer(t)
	doc := testDocument()
	doc.Items[0].Quantity = decimal.RequireFromString("-1")

	w := postJSON(t, s, "/v1/quotes/render", doc)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "items[0].quantity") {
		t.Errorf("body = %q, want field detail", w.Body.String())
	}
}

func TestRenderEndpointBadJSON(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes/render", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEmailEndpointRequiresRecipient(t *testing.T) {
	s := testServer(t)
	w := postJSON(t, s, "/v1/quotes/email", map[string]any{"quote": testDocument()})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when no recipient is configured", w.Code)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}
