// backend/catalog/catalog_test.go
package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seaviz/maritime/backend/models"
)

func TestRenameStripsIntAnnotation(t *testing.T) {
	cases := []struct {
		kind  models.Retrieval
		label string
		want  string
	}{
		{models.RetrievalAOD, "AOD_500nm(int)", "aod_500nm"},
		{models.RetrievalAOD, "AOD_500nm", "aod_500nm"},
		{models.RetrievalAOD, "Date(dd:mm:yyyy)", "date"},
		{models.RetrievalAOD, "Last_Processing_Date(dd:mm:yyyy)", "last_processing_date"},
		{models.RetrievalSDA, "Total_AOD_500nm(tau_a)", "total_aod_500nm"},
		{models.RetrievalSDA, "STDEV-500nm_Input_AOD", "stdev_aod_500nm"},
		// Unknown labels pass through so a new upstream column never
		// fails ingestion.
		{models.RetrievalAOD, "Some_Future_Column", "Some_Future_Column"},
	}
	for _, c := range cases {
		if got := Rename(c.kind, c.label); got != c.want {
			t.Errorf("Rename(%s, %q) = %q, want %q", c.kind, c.label, got, c.want)
		}
	}
}

func TestRawLabelRoundTrip(t *testing.T) {
	for _, v := range Variants() {
		for _, field := range v.Fields() {
			raw := RawLabel(v.Retrieval, field)
			if raw == field {
				// Defined canonical fields must map back to a real
				// archive label, not pass through.
				t.Errorf("%s: field %q has no raw label", v, field)
				continue
			}
			if got := Rename(v.Retrieval, raw); got != field {
				t.Errorf("%s: Rename(RawLabel(%q)) = %q", v, field, got)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	v, err := Lookup("AOD", "Daily")
	if err != nil {
		t.Fatalf("Lookup(AOD, Daily): %v", err)
	}
	if v.Table() != "man_aod_daily" {
		t.Errorf("Table() = %q, want man_aod_daily", v.Table())
	}
	if v.FileStem() != "MAN_DATASET_AOD_DAILY" {
		t.Errorf("FileStem() = %q", v.FileStem())
	}

	if _, err := Lookup("AOD", "Hourly"); err == nil {
		t.Error("Lookup(AOD, Hourly) should fail")
	}
	if _, err := Lookup("XYZ", "Daily"); err == nil {
		t.Error("Lookup(XYZ, Daily) should fail")
	}
}

func TestPayloadFieldsExcludeTypedColumns(t *testing.T) {
	for _, v := range Variants() {
		for _, f := range v.PayloadFields() {
			if f == "date" || f == "time" || f == "last_processing_date" {
				t.Errorf("%s: typed field %q leaked into payload", v, f)
			}
		}
		if want := len(v.Fields()) - 3; len(v.PayloadFields()) != want {
			t.Errorf("%s: PayloadFields() has %d entries, want %d", v, len(v.PayloadFields()), want)
		}
	}
}

func TestSeriesAndDailyShareShape(t *testing.T) {
	aodSeries, _ := Lookup("AOD", "Series")
	aodDaily, _ := Lookup("AOD", "Daily")
	if diff := cmp.Diff(aodSeries.Fields(), aodDaily.Fields()); diff != "" {
		t.Errorf("AOD series/daily field mismatch (-series +daily):\n%s", diff)
	}
	sdaSeries, _ := Lookup("SDA", "Series")
	sdaDaily, _ := Lookup("SDA", "Daily")
	if diff := cmp.Diff(sdaSeries.Fields(), sdaDaily.Fields()); diff != "" {
		t.Errorf("SDA series/daily field mismatch (-series +daily):\n%s", diff)
	}
}

func TestDisplayFieldsAreDailyAODReadings(t *testing.T) {
	fields := DisplayFields()
	if len(fields) == 0 {
		t.Fatal("no display fields")
	}
	daily, _ := Lookup("AOD", "Daily")
	valid := make(map[string]bool, len(daily.Fields()))
	for _, f := range daily.Fields() {
		valid[f] = true
	}
	for _, f := range fields {
		switch f {
		case "date", "time", "last_processing_date", "aeronet_number", "microtops_number", "number_of_observations":
			t.Errorf("bookkeeping field %q offered for display", f)
		}
		if !valid[f] {
			t.Errorf("display field %q is not a daily AOD field", f)
		}
	}
}
