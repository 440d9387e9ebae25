// backend/ingest/headers.go
package ingest

import (
	"strings"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/models"
)

// outputColumns are the synthetic output-only columns appended to the
// reconstructed header in place of the removed Latitude/Longitude pair.
var outputColumns = []string{"Coordinates", "Cruise", "Level", "PI", "PI_EMAIL"}

// OutputColumns returns the synthetic columns appended to every export
// row after the variant's measurement fields.
func OutputColumns() []string {
	return outputColumns
}

// HeaderFromRaw builds the HeaderRecord for a parsed raw file: the two
// verbatim preamble lines plus the canonical column-header line
// reconstructed from the raw header (Latitude/Longitude removed, output
// columns appended). Persistence of the record is first-wins per
// (frequency, datatype, level); extraction itself is pure.
func HeaderFromRaw(raw *RawFile) *models.HeaderRecord {
	cols := make([]string, 0, len(raw.Header)+len(outputColumns))
	for _, label := range raw.Header {
		label = strings.TrimSpace(label)
		if label == "Latitude" || label == "Longitude" {
			continue
		}
		cols = append(cols, label)
	}
	cols = append(cols, outputColumns...)

	return &models.HeaderRecord{
		Frequency:  raw.Info.Frequency,
		Retrieval:  raw.Info.Retrieval,
		Level:      raw.Info.Level,
		PreambleL1: strings.TrimRight(raw.PreambleL1, "\r\n"),
		PreambleL2: strings.TrimRight(raw.PreambleL2, "\r\n"),
		Header:     strings.Join(cols, ","),
	}
}

// ExportHeaderColumns returns the export column order implied by a
// variant: the raw labels of its canonical fields followed by the output
// columns. This matches the reconstructed header line stored in the
// registry for the same shape.
func ExportHeaderColumns(v catalog.Variant) []string {
	fields := v.Fields()
	cols := make([]string, 0, len(fields)+len(outputColumns))
	for _, f := range fields {
		cols = append(cols, catalog.RawLabel(v.Retrieval, f))
	}
	return append(cols, outputColumns...)
}
