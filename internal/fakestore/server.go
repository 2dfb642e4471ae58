// Package fakestore serves a fixture catalog with the same routes as the
// remote store API. It backs cmd/fakestore and the HTTP tests.
package fakestore

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/shelf/internal/catalog"
)

// Server holds the fixture data and the fault knobs.
type Server struct {
	mu         sync.RWMutex
	products   []catalog.Product
	categories []string
	delay      time.Duration
	failStatus int
	corrupt    bool

	productHits  atomic.Int64
	categoryHits atomic.Int64

	engine *gin.Engine
}

// New returns a server preloaded with products and categories.
func New(products []catalog.Product, categories []string) *Server {
	s := &Server{
		products:   catalog.CloneProducts(products),
		categories: append([]string(nil), categories...),
	}
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)
	s.engine = r
	return s
}

// NewDefault returns a server with the built-in fixture catalog.
func NewDefault() *Server {
	return New(FixtureProducts(), FixtureCategories())
}

// Handler exposes the gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/products", s.listProducts)
	r.GET("/products/categories", s.listCategories)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *Server) listProducts(c *gin.Context) {
	s.productHits.Add(1)
	if s.fault(c) {
		return
	}

	s.mu.RLock()
	items := catalog.CloneProducts(s.products)
	s.mu.RUnlock()

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if limit < len(items) {
			items = items[:limit]
		}
	}
	if items == nil {
		items = []catalog.Product{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listCategories(c *gin.Context) {
	s.categoryHits.Add(1)
	if s.fault(c) {
		return
	}

	s.mu.RLock()
	cats := append([]string{}, s.categories...)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, cats)
}

// fault applies the configured delay and failure mode. It reports whether
// the response has already been written.
func (s *Server) fault(c *gin.Context) bool {
	s.mu.RLock()
	delay, status, corrupt := s.delay, s.failStatus, s.corrupt
	s.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return true
		}
	}
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return true
	}
	if corrupt {
		c.Data(http.StatusOK, "application/json", []byte("{not-json"))
		return true
	}
	return false
}

// SetDelay makes every response wait d before being written.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetFailStatus makes every response fail with status; zero disables it.
func (s *Server) SetFailStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// SetCorrupt makes every response return an undecodable body.
func (s *Server) SetCorrupt(corrupt bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrupt = corrupt
}

// SetProducts replaces the product fixture.
func (s *Server) SetProducts(products []catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = catalog.CloneProducts(products)
}

// SetCategories replaces the category fixture.
func (s *Server) SetCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string(nil), categories...)
}

// ProductHits returns how many /products requests were received.
func (s *Server) ProductHits() int64 {
	return s.productHits.Load()
}

// CategoryHits returns how many /products/categories requests were received.
func (s *Server) CategoryHits() int64 {
	return s.categoryHits.Load()
}
