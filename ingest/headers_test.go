// backend/ingest/headers_test.go
package ingest

import (
	"strings"
	"testing"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/models"
)

func TestHeaderFromRaw(t *testing.T) {
	raw := dailyAODRaw(nil)
	h := HeaderFromRaw(raw)

	if h.Frequency != models.FrequencyDaily || h.Retrieval != models.RetrievalAOD || h.Level != 15 {
		t.Errorf("header keyed %s/%s/%d", h.Frequency, h.Retrieval, h.Level)
	}

	cols := strings.Split(h.Header, ",")
	for _, c := range cols {
		if c == "Latitude" || c == "Longitude" {
			t.Errorf("raw coordinate column %q survived reconstruction", c)
		}
	}
	tail := cols[len(cols)-5:]
	want := []string{"Coordinates", "Cruise", "Level", "PI", "PI_EMAIL"}
	for i, c := range tail {
		if c != want[i] {
			t.Errorf("output column %d = %q, want %q", i, c, want[i])
		}
	}
}

func TestExportHeaderColumnsMatchRowWidth(t *testing.T) {
	for _, v := range catalog.Variants() {
		cols := ExportHeaderColumns(v)
		want := len(v.Fields()) + len(OutputColumns())
		if len(cols) != want {
			t.Errorf("%s: %d header columns, want %d", v, len(cols), want)
		}
	}
}
