package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
	JWT   *auth.TokenMaker
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Get("/products", s.list)
	r.Get("/products/find", s.find)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(s.JWT, auth.RoleEditor))
		pr.Post("/products", s.add)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// list serves GET /products. The optional query parameters map onto the
// query operations: max_price and category filter, sort=rating orders by
// rating descending. Filters compose and always keep catalog order.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	q := r.URL.Query()

	if v := q.Get("max_price"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "max_price is not a decimal", map[string]any{"max_price": v})
			return
		}
		products = FilterByPriceCeiling(products, maxPrice)
	}

	if v := q.Get("category"); v != "" {
		products = FilterByCategory(products, v)
	}

	switch v := q.Get("sort"); v {
	case "":
	case "rating":
		products = SortByRatingDesc(products)
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "unknown sort", map[string]any{"sort": v})
		return
	}

	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	p, ok := FindByName(products, name)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"name": name})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type addReq struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Rating   *float64 `json:"rating"`
}

type addResp struct {
	Product   Product `json:"product"`
	Persisted bool    `json:"persisted"`
	Warning   string  `json:"warning,omitempty"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req addReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.Name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}
	if req.Price == nil || req.Rating == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "price and rating required", nil)
		return
	}
	if !isFinite(*req.Price) || !isFinite(*req.Rating) {
		kit.WriteError(w, r, http.StatusBadRequest, "price and rating must be finite", nil)
		return
	}
	if *req.Price < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "price must be non-negative", nil)
		return
	}

	p := Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    *req.Price,
		Rating:   *req.Rating,
	}

	err := s.Store.Add(r.Context(), p)

	var perr *PersistError
	switch {
	case err == nil:
		kit.WriteJSON(w, http.StatusCreated, addResp{Product: p, Persisted: true})

	case errors.As(err, &perr):
		// The record is in memory and queryable; only the mirror failed.
		kit.WriteJSON(w, http.StatusCreated, addResp{
			Product:   p,
			Persisted: false,
			Warning:   "record not persisted and will be lost on restart",
		})

	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrUnencodable):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)

	default:
		if s.Log != nil {
			s.Log.Error("add product failed", zap.Error(err), zap.String("name", p.Name))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
