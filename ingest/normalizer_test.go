// backend/ingest/normalizer_test.go
package ingest

import (
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/models"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func dailyAODRaw(rows []map[string]string) *RawFile {
	return &RawFile{
		Path: "Polarstern_17_daily.lev15",
		Info: FileInfo{
			Site:      "Polarstern_17",
			Frequency: models.FrequencyDaily,
			Retrieval: models.RetrievalAOD,
			Level:     models.Level15,
		},
		Cruise:  "Polarstern_17",
		PI:      "Remy",
		PIEmail: "jremy@example.org",
		Header:  []string{"Date(dd:mm:yyyy)", "Time(hh:mm:ss)", "Latitude", "Longitude", "AOD_500nm", "AERONET_Number"},
		Rows:    rows,
	}
}

func TestNormalize(t *testing.T) {
	raw := dailyAODRaw([]map[string]string{
		{
			"Date(dd:mm:yyyy)": "16:10:2004",
			"Time(hh:mm:ss)":   "12:30:45",
			"Latitude":         "-60.5",
			"Longitude":        "5.25",
			"AOD_500nm":        "0.3000",
			"AERONET_Number":   "123",
		},
	})

	records, site := Normalize(raw, quietLogger())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	m := records[0]
	if m.Cruise != "Polarstern_17" || m.Level != 15 {
		t.Errorf("cruise/level = %q/%d", m.Cruise, m.Level)
	}
	want := time.Date(2004, 10, 16, 0, 0, 0, 0, time.UTC)
	if m.Date == nil || !m.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", m.Date, want)
	}
	if m.Time != "12:30:45" {
		t.Errorf("Time = %q", m.Time)
	}
	if m.Latitude != -60.5 || m.Longitude != 5.25 {
		t.Errorf("coords = %v/%v", m.Latitude, m.Longitude)
	}
	if m.Fields["aod_500nm"] != "0.3000" {
		t.Errorf("aod_500nm = %q", m.Fields["aod_500nm"])
	}
	if _, ok := m.Fields["Latitude"]; ok {
		t.Error("Latitude leaked into payload fields")
	}

	if site == nil {
		t.Fatal("daily AOD level 1.5 file should discover its site")
	}
	if site.Name != "Polarstern_17" || site.AeronetNumber != 123 || site.Description != "?" {
		t.Errorf("site = %+v", site)
	}
}

func TestNormalizeUnparseableDateIsNil(t *testing.T) {
	raw := dailyAODRaw([]map[string]string{
		{
			"Date(dd:mm:yyyy)": "not-a-date",
			"Time(hh:mm:ss)":   "00:00:00",
			"Latitude":         "1.0",
			"Longitude":        "2.0",
		},
	})
	records, _ := Normalize(raw, quietLogger())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (bad date must not drop the row)", len(records))
	}
	if records[0].Date != nil {
		t.Errorf("Date = %v, want nil sentinel", records[0].Date)
	}
}

func TestNormalizeSkipsBadCoordinates(t *testing.T) {
	raw := dailyAODRaw([]map[string]string{
		{"Date(dd:mm:yyyy)": "16:10:2004", "Latitude": "garbage", "Longitude": "5.25"},
		{"Date(dd:mm:yyyy)": "17:10:2004", "Latitude": "-60.5", "Longitude": "5.25"},
	})
	records, _ := Normalize(raw, quietLogger())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (row with bad coordinates skipped)", len(records))
	}
}

func TestNormalizeSiteDiscoveryIsDailyLev15Only(t *testing.T) {
	row := map[string]string{
		"Date(dd:mm:yyyy)": "16:10:2004",
		"Latitude":         "1.0",
		"Longitude":        "2.0",
		"AERONET_Number":   "7",
	}

	cases := []FileInfo{
		{Site: "Tara", Frequency: models.FrequencySeries, Retrieval: models.RetrievalAOD, Level: models.Level15},
		{Site: "Tara", Frequency: models.FrequencyDaily, Retrieval: models.RetrievalAOD, Level: models.Level20},
		{Site: "Tara", Frequency: models.FrequencyDaily, Retrieval: models.RetrievalSDA, Level: models.Level15},
	}
	for _, info := range cases {
		raw := dailyAODRaw([]map[string]string{row})
		raw.Info = info
		if _, site := Normalize(raw, quietLogger()); site != nil {
			t.Errorf("%s/%s level %d should not discover a site", info.Retrieval, info.Frequency, info.Level)
		}
	}

	raw := dailyAODRaw(nil)
	if _, site := Normalize(raw, quietLogger()); site != nil {
		t.Error("file with no usable rows should not discover a site")
	}
}
