// backend/models/header.go
package models

// HeaderRecord holds the preamble captured from the first raw file seen
// for a (frequency, retrieval, level) triple, plus the reconstructed
// canonical column-header line used when exporting. First file wins:
// later registrations for the same key are silent no-ops.
type HeaderRecord struct {
	ID        int64     `db:"id"`
	Frequency Frequency `db:"freq"`
	Retrieval Retrieval `db:"datatype"`
	Level     int       `db:"level"`

	PreambleL1 string `db:"base_header_l1"`
	PreambleL2 string `db:"base_header_l2"`
	Header     string `db:"header_line"`
}
