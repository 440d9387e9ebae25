// backend/handlers/site_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/seaviz/maritime/backend/models"
	"github.com/seaviz/maritime/backend/services"
)

// floatParam reads an optional float query parameter. A missing or empty
// value is nil; a present but malformed one is an error so the caller can
// reject the request instead of silently dropping a filter.
func floatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

// SiteListHandler handles GET /api/measurements/sites/: the selectable
// cruise sites, optionally restricted by date range and bounding box
// query parameters.
func SiteListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	q := services.SiteQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	var err error
	if q.MinLat, err = floatParam(r, "min_lat"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.MinLng, err = floatParam(r, "min_lng"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.MaxLat, err = floatParam(r, "max_lat"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.MaxLng, err = floatParam(r, "max_lng"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := services.ListSites(q)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to list sites: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// MeasurementsHandler handles POST /api/measurements/: one reading column
// from the daily level 1.5 AOD data across the requested sites.
func MeasurementsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req models.MeasurementsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	points, err := services.SiteMeasurements(req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to query measurements: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, points)
}

// DisplayInfoHandler handles GET /api/display_info/: the reading columns
// the frontend may offer for plotting.
func DisplayInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"readings": services.DisplayOptions()})
}
