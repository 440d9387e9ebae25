// backend/models/measurement.go
package models

import (
	"strconv"
	"time"
)

// Retrieval is the top-level measurement schema a raw file belongs to.
type Retrieval string

// Frequency is the temporal aggregation of a record set.
type Frequency string

const (
	RetrievalAOD Retrieval = "AOD"
	RetrievalSDA Retrieval = "SDA"

	FrequencyPoint  Frequency = "Point"
	FrequencySeries Frequency = "Series"
	FrequencyDaily  Frequency = "Daily"
)

// Quality levels as stored: the filename suffix digits (lev15 -> 15).
const (
	Level10 = 10
	Level15 = 15
	Level20 = 20
)

// Measurement is one canonical record produced by the normalizer. The
// columns every variant shares are typed; the variant-specific payload
// stays as raw text keyed by canonical field name so the export path can
// re-emit it byte for byte.
type Measurement struct {
	Cruise  string
	Level   int
	PI      string
	PIEmail string

	// Date is nil when the source value could not be parsed (the
	// explicit null sentinel required for unparseable dates).
	Date          *time.Time
	Time          string
	LastProcessed *time.Time

	// Geographic point, X=longitude Y=latitude.
	Longitude float64
	Latitude  float64

	Fields map[string]string
}

// DateLayout is the ISO form dates take once normalized.
const DateLayout = "2006-01-02"

// DateString renders the record date, empty when the sentinel is set.
func (m *Measurement) DateString() string {
	if m.Date == nil {
		return ""
	}
	return m.Date.Format(DateLayout)
}

// LastProcessedString renders the last-processing date, empty when unset.
func (m *Measurement) LastProcessedString() string {
	if m.LastProcessed == nil {
		return ""
	}
	return m.LastProcessed.Format(DateLayout)
}

// NaturalKey is the composite identity of a persisted measurement within
// a variant's table: no two rows may share it.
func (m *Measurement) NaturalKey() string {
	return m.Cruise + "|" + strconv.Itoa(m.Level) + "|" + m.DateString() + "|" + m.Time
}

// LoadSummary reports a bulk-load outcome for one file group.
type LoadSummary struct {
	Inserted int
	Skipped  int
}

// RunSummary is the reduced outcome of one ingestion run. It is built
// from per-file results by the driver; workers never share counters.
type RunSummary struct {
	FilesProcessed int `json:"files_processed"`
	FilesFailed    int `json:"files_failed"`
	Inserted       int `json:"inserted"`
	Skipped        int `json:"skipped"`
	SitesFound     int `json:"sites_found"`
}
