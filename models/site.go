// backend/models/site.go
package models

import "time"

// Site is the per-cruise aggregate. Its date span must always reflect the
// min/max date over the persisted daily level-1.5 AOD measurements for
// that cruise; the store recomputes it whenever child rows change.
type Site struct {
	Name          string     `csv:"name" db:"name" json:"name"`
	AeronetNumber int        `csv:"aeronet_number" db:"aeronet_number" json:"aeronet_number"`
	Description   string     `csv:"description" db:"description" json:"description"`
	SpanStart     *time.Time `csv:"-" db:"span_start" json:"span_start,omitempty"`
	SpanEnd       *time.Time `csv:"-" db:"span_end" json:"span_end,omitempty"`
}

// SiteListEntry is what the site listing endpoint returns: name plus the
// [start, end] span array the frontend expects.
type SiteListEntry struct {
	Name     string    `json:"name"`
	SpanDate [2]string `json:"span_date"`
}
