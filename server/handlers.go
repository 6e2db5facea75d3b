package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"airbnb-dashboard/models"
	"airbnb-dashboard/storage"
)

//go:embed web/index.html
var indexHTML []byte

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.store.Version(),
		"loaded_at":  s.store.LoadedAt(),
		"ws_clients": s.hub.Count(),
	})
}

// filtersHandler handles GET /api/filters
func (s *Server) filtersHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.Options(r.Context())
	if err != nil {
		s.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": opts})
}

// dashboardHandler handles GET /api/dashboard
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.filterSpec(w, r)
	if !ok {
		return
	}

	d, err := s.dashboards.Build(r.Context(), spec)
	if err != nil {
		s.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": d})
}

// exportXLSXHandler handles GET /api/listings.xlsx
func (s *Server) exportXLSXHandler(w http.ResponseWriter, r *http.Request) {
	view, ok := s.filteredView(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="listings.xlsx"`)
	if err := storage.WriteXLSX(w, view); err != nil {
		s.logger.Error("[http] XLSX export failed: %v", err)
	}
}

// exportCSVHandler handles GET /api/listings.csv
func (s *Server) exportCSVHandler(w http.ResponseWriter, r *http.Request) {
	view, ok := s.filteredView(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="listings.csv"`)
	cw, err := storage.NewCSVWriter(w)
	if err == nil {
		err = cw.WriteListings(view)
	}
	if err != nil {
		s.logger.Error("[http] CSV export failed: %v", err)
	}
}

func (s *Server) filteredView(w http.ResponseWriter, r *http.Request) ([]models.Listing, bool) {
	spec, ok := s.filterSpec(w, r)
	if !ok {
		return nil, false
	}
	view, err := s.dashboards.View(r.Context(), spec)
	if err != nil {
		s.fail(w, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return view, true
}

func (s *Server) filterSpec(w http.ResponseWriter, r *http.Request) (models.FilterSpec, bool) {
	opts, err := s.store.Options(r.Context())
	if err != nil {
		s.fail(w, http.StatusServiceUnavailable, err)
		return models.FilterSpec{}, false
	}

	spec, err := ParseFilterSpec(r.URL.Query(), opts)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return models.FilterSpec{}, false
	}
	return spec, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if !errors.Is(err, errInvalidFilter) {
		s.logger.Error("[http] %v", err)
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
