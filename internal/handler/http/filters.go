package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httputil"
)

// FilterHandler handles HTTP requests for the listing criteria.
type FilterHandler struct {
	logger *slog.Logger
}

// NewFilterHandler creates a new filter HTTP handler.
func NewFilterHandler(logger *slog.Logger) *FilterHandler {
	return &FilterHandler{logger: logger}
}

// GetFilters handles GET /api/v1/filters
func (h *FilterHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, storefrontFrom(r).Filters.State())
}

// UpdateFilters handles PATCH /api/v1/filters. The body maps filter keys to
// new values; either every key applies or none does.
func (h *FilterHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var body map[domain.FilterKey]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	values := make(map[domain.FilterKey]any, len(body))
	for key, raw := range body {
		v, err := domain.DecodeFilterValue(key, raw)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		values[key] = v
	}

	sf := storefrontFrom(r)
	sf.Filters.UpdateFilters(r.Context(), values)
	httputil.WriteData(w, sf.Filters.State())
}

// ClearFilters handles DELETE /api/v1/filters
func (h *FilterHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	sf.Filters.ClearFilters(r.Context())
	httputil.WriteData(w, sf.Filters.State())
}
