package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"freightcalc/internal/engine"
	"freightcalc/internal/fuel"
	"freightcalc/internal/rates"
	"freightcalc/internal/store"
	"freightcalc/internal/surcharge"
	"freightcalc/internal/zones"
)

// Store is the data access the handlers need. *store.Store satisfies it;
// tests inject fakes.
type Store interface {
	Product(ctx context.Context, id int64) (*engine.Product, error)
	ActiveFuelRate(ctx context.Context, at time.Time) (*fuel.Rate, error)
	Resolve(ctx context.Context, fromPostal, toPostal string) (zones.Info, error)
	SaveHistory(ctx context.Context, h store.HistoryEntry) error
	RecentHistory(ctx context.Context, limit int) ([]store.HistoryEntry, error)
}

type Server struct {
	store Store
	eng   *engine.Engine
	log   *slog.Logger
}

// New wires the calculator API. A nil logger falls back to slog's default.
func New(st Store, eng *engine.Engine, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: st, eng: eng, log: log}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Get("/healthz", s.handleHealth)
	r.Post("/calculator/calculate", s.handleCalculate)
	r.Get("/calculations", s.handleHistory)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type CalculateRequest struct {
	ProductID      int64   `json:"productId"`
	FromPostalCode string  `json:"fromPostalCode"`
	ToPostalCode   string  `json:"toPostalCode"`
	WeightKg       float64 `json:"weightKg"`
	LengthCm       float64 `json:"lengthCm"`
	WidthCm        float64 `json:"widthCm"`
	HeightCm       float64 `json:"heightCm"`
	// Defaults to true when omitted, matching the carrier-facing calculator.
	IsResidential *bool `json:"isResidential"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if req.ProductID == 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "productId required")
		return
	}
	if strings.TrimSpace(req.FromPostalCode) == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "fromPostalCode required")
		return
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"weightKg", req.WeightKg},
		{"lengthCm", req.LengthCm},
		{"widthCm", req.WidthCm},
		{"heightCm", req.HeightCm},
	} {
		if f.value <= 0 {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", f.name+" must be greater than 0")
			return
		}
	}

	residential := true
	if req.IsResidential != nil {
		residential = *req.IsResidential
	}
	shipment := engine.Shipment{
		LengthCm:    req.LengthCm,
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
		WeightKg:    req.WeightKg,
		Residential: residential,
	}

	ctx := r.Context()
	now := time.Now().UTC()

	product, err := s.store.Product(ctx, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "product not found")
		case errors.Is(err, store.ErrProductInactive):
			writeErrorJSON(w, http.StatusUnprocessableEntity, "product_inactive", "product is not active")
		default:
			s.log.Error("load product failed", "product_id", req.ProductID, "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		}
		return
	}
	fuelRate, err := s.store.ActiveFuelRate(ctx, now)
	if err != nil {
		s.log.Error("load fuel rate failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "failed to load fuel rate")
		return
	}

	// No destination: quote every zone.
	if strings.TrimSpace(req.ToPostalCode) == "" {
		out, err := s.eng.QuoteAllZones(product, shipment, fuelRate, now)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	zi, err := s.store.Resolve(ctx, req.FromPostalCode, req.ToPostalCode)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOriginNotFound), errors.Is(err, store.ErrZoneNotFound):
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			s.log.Error("zone resolution failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "failed to resolve zone")
		}
		return
	}

	bd, err := s.eng.Quote(product, shipment, zi, fuelRate, now)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	// History is best-effort; a failed insert never fails the quote.
	entry := store.HistoryEntry{
		ProductID:   req.ProductID,
		FromPostal:  req.FromPostalCode,
		ToPostal:    req.ToPostalCode,
		LengthCm:    req.LengthCm,
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
		WeightKg:    req.WeightKg,
		Residential: residential,
		Zone:        bd.Zone,
	}
	if bd.TotalAmount != nil {
		entry.TotalAmount = *bd.TotalAmount
	} else if bd.Fee != nil {
		entry.TotalAmount = *bd.Fee
	}
	if err := s.store.SaveHistory(ctx, entry); err != nil {
		s.log.Warn("history insert failed", "error", err)
	}

	writeJSON(w, http.StatusOK, bd)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}
	entries, err := s.store.RecentHistory(r.Context(), limit)
	if err != nil {
		s.log.Error("list history failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "failed to list history")
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeEngineError maps engine failures onto the error envelope: validation
// problems are the caller's to fix, unpriced zones and catalog gaps are
// business errors, anything else is a generic system error.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var (
		ve *engine.ValidationError
		ne *rates.NotConfiguredError
		me *surcharge.MissingError
	)
	switch {
	case errors.As(err, &ve):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", ve.Error())
	case errors.As(err, &ne):
		writeErrorJSON(w, http.StatusUnprocessableEntity, "rate_not_configured", ne.Error())
	case errors.As(err, &me):
		writeErrorJSON(w, http.StatusUnprocessableEntity, "rate_not_configured", me.Error())
	default:
		s.log.Error("calculation failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "calculation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is
// generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}
