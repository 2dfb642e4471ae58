package fakestore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/shelf/internal/catalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServer_ProductsHonoursLimit(t *testing.T) {
	s := NewDefault()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var items []catalog.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 {
		t.Fatalf("items = %#v, want first 2 fixtures", items)
	}
	if s.ProductHits() != 1 {
		t.Fatalf("ProductHits = %d, want 1", s.ProductHits())
	}
}

func TestServer_InvalidLimit(t *testing.T) {
	s := NewDefault()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_FailStatusAndCorrupt(t *testing.T) {
	s := NewDefault()

	s.SetFailStatus(http.StatusServiceUnavailable)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/categories", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	s.SetFailStatus(0)
	s.SetCorrupt(true)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/categories", nil))
	var cats []string
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err == nil {
		t.Fatalf("corrupt body decoded cleanly: %v", cats)
	}
	if s.CategoryHits() != 2 {
		t.Fatalf("CategoryHits = %d, want 2", s.CategoryHits())
	}
}
