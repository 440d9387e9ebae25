// backend/services/site_service.go
package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/config"
	"github.com/seaviz/maritime/backend/database"
	"github.com/seaviz/maritime/backend/ingest"
	"github.com/seaviz/maritime/backend/models"
)

// SiteQuery carries the /api/measurements/sites/ query parameters.
type SiteQuery struct {
	StartDate string
	EndDate   string
	MinLat    *float64
	MinLng    *float64
	MaxLat    *float64
	MaxLng    *float64
}

// ListSites returns the selectable sites, filtered to those whose
// recorded date span intersects the requested range and, when a full
// bounding box is given, those with daily level 1.5 data inside it.
func ListSites(q SiteQuery) ([]models.SiteListEntry, error) {
	start, err := parseStartDate(q.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseEndDate(q.EndDate)
	if err != nil {
		return nil, err
	}

	sites, err := database.ListSites(database.SiteFilter{
		StartDate: start,
		EndDate:   end,
		Bounds:    boundsFrom(q.MinLat, q.MinLng, q.MaxLat, q.MaxLng),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]models.SiteListEntry, 0, len(sites))
	for _, s := range sites {
		entry := models.SiteListEntry{Name: s.Name}
		if s.SpanStart != nil {
			entry.SpanDate[0] = s.SpanStart.Format(models.DateLayout)
		}
		if s.SpanEnd != nil {
			entry.SpanDate[1] = s.SpanEnd.Format(models.DateLayout)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SiteMeasurements returns one reading column of the daily level 1.5
// AOD data across the requested sites, for the map readout.
func SiteMeasurements(req models.MeasurementsRequest) ([]models.MeasurementPoint, error) {
	if req.Reading == "" {
		return nil, fmt.Errorf("no reading requested")
	}
	valid := false
	for _, f := range catalog.DisplayFields() {
		if f == req.Reading {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown reading %q", req.Reading)
	}
	if len(req.Sites) == 0 {
		return nil, fmt.Errorf("no sites requested")
	}

	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseEndDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	return database.QueryReadings(req.Reading, req.Sites, database.MeasurementFilter{
		StartDate: start,
		EndDate:   end,
		Bounds:    boundsFrom(req.MinLat, req.MinLng, req.MaxLat, req.MaxLng),
	})
}

// DisplayOptions lists the reading columns the frontend may plot.
func DisplayOptions() []string {
	return catalog.DisplayFields()
}

// CheckSource probes the upstream download page for the archive link
// without fetching the archive itself.
func CheckSource() (*ingest.SourceStatus, error) {
	return ingest.CheckSourcePage(config.AppConfig.Man.PageURL, log.StandardLogger())
}
