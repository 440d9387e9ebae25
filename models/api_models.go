// backend/models/api_models.go
package models

// DownloadRequest is the expected JSON body for the /api/download/ endpoint.
// Dates are ISO "YYYY-MM-DD" or empty for open-ended; bounds are optional
// and are only applied when all four are present.
type DownloadRequest struct {
	Sites      []string `json:"sites"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Retrievals []string `json:"retrievals"` // "AOD" | "SDA"
	Frequency  []string `json:"frequency"`  // "Point" | "Series" | "Daily"
	Quality    []string `json:"quality"`    // "Level 1.0" | "Level 1.5" | "Level 2.0"

	MinLat *float64 `json:"min_lat"`
	MinLng *float64 `json:"min_lng"`
	MaxLat *float64 `json:"max_lat"`
	MaxLng *float64 `json:"max_lng"`
}

// MeasurementsRequest is the body for /api/measurements/: one reading
// column from the daily AOD set across the selected sites.
type MeasurementsRequest struct {
	Reading   string   `json:"reading"`
	Sites     []string `json:"sites"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`

	MinLat *float64 `json:"min_lat"`
	MinLng *float64 `json:"min_lng"`
	MaxLat *float64 `json:"max_lat"`
	MaxLng *float64 `json:"max_lng"`
}

// MeasurementPoint is one row of the measurements readout.
type MeasurementPoint struct {
	Site          string       `json:"site"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	Coordinates   *Coordinates `json:"coordinates"`
	AeronetNumber int          `json:"aeronet_number"`
	Value         string       `json:"value"`
}

// Coordinates is a lng/lat pair as the frontend consumes it.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}
