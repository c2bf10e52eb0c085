package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maltedev/listing-extractor/internal/models"
	"github.com/maltedev/listing-extractor/internal/resolver"
)

const (
	defaultTargetMarket = "US"
	demoMarker          = "/test/"
	// Suggested to clients that hit a challenge page; served by demo mode.
	DemoSuggestionURL = "https://www.amazon.com/test/dp/B075CYMYK6"
)

// Extractor produces a record for one product URL.
type Extractor interface {
	Extract(ctx context.Context, rawURL, targetMarket string) (*models.ProductRecord, error)
}

type Handlers struct {
	extractor Extractor
	demoMode  bool
	logger    *slog.Logger
}

func NewHandlers(extractor Extractor, demoMode bool, logger *slog.Logger) *Handlers {
	return &Handlers{
		extractor: extractor,
		demoMode:  demoMode,
		logger:    logger.With("component", "api"),
	}
}

// ParseRequest represents the request for product extraction
type ParseRequest struct {
	URL          string `json:"url"`
	TargetMarket string `json:"targetMarket"`
}

// ParseResponse wraps a successfully extracted record
type ParseResponse struct {
	Success bool                  `json:"success"`
	Data    *models.ProductRecord `json:"data"`
	Message string                `json:"message"`
	Demo    bool                  `json:"isDemo,omitempty"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	TestMode   bool   `json:"testMode,omitempty"`
}

// Parse handles product extraction requests
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.TargetMarket == "" {
		req.TargetMarket = defaultTargetMarket
	}

	if h.demoMode && strings.Contains(req.URL, demoMarker) {
		h.logger.Info("serving demo record", "url", req.URL)
		h.respondJSON(w, http.StatusOK, ParseResponse{
			Success: true,
			Data:    DemoProduct(req.URL, req.TargetMarket),
			Message: "demo record loaded",
			Demo:    true,
		})
		return
	}

	product, err := h.extractor.Extract(r.Context(), req.URL, req.TargetMarket)
	if err != nil {
		h.respondExtractionError(w, req.URL, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ParseResponse{
		Success: true,
		Data:    product,
		Message: "product extracted",
	})
}

// SiteResponse lists the supported storefronts
type SiteResponse struct {
	Sites []models.SiteDescriptor `json:"sites"`
}

func (h *Handlers) Sites(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SiteResponse{Sites: resolver.Sites()})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusFor maps an extraction error to the HTTP status returned to clients.
func StatusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindNotFoundIdentifier, models.KindUnsupportedSite:
		return http.StatusBadRequest
	case models.KindAntiBot:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) respondExtractionError(w http.ResponseWriter, rawURL string, err error) {
	kind := models.KindOf(err)
	status := StatusFor(err)

	resp := ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    string(kind),
	}
	if kind == models.KindAntiBot {
		resp.Suggestion = DemoSuggestionURL
		resp.TestMode = h.demoMode
	}

	var extractionErr *models.Error
	attempts := 0
	if errors.As(err, &extractionErr) {
		attempts = extractionErr.Attempts
	}

	h.logger.Error("failed to extract product",
		"url", rawURL,
		"kind", kind,
		"attempts", attempts,
		"status", status,
		"error", err,
	)
	h.respondJSON(w, status, resp)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{Success: false, Error: message})
}
