// backend/ingest/filename_test.go
package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seaviz/maritime/backend/models"
)

func TestParseName(t *testing.T) {
	cases := []struct {
		name string
		want FileInfo
	}{
		{
			"Polarstern_17_all_points.lev15",
			FileInfo{Site: "Polarstern_17", Frequency: models.FrequencyPoint, Retrieval: models.RetrievalAOD, Level: 15},
		},
		{
			"Polarstern_17_series.lev20",
			FileInfo{Site: "Polarstern_17", Frequency: models.FrequencySeries, Retrieval: models.RetrievalAOD, Level: 20},
		},
		{
			"Tara_daily.lev10",
			FileInfo{Site: "Tara", Frequency: models.FrequencyDaily, Retrieval: models.RetrievalAOD, Level: 10},
		},
		{
			"Tara_daily.ONEILL_15",
			FileInfo{Site: "Tara", Frequency: models.FrequencyDaily, Retrieval: models.RetrievalSDA, Level: 15},
		},
		{
			// A site name containing "points" must not shadow the tag.
			"Six_points_cruise_all_points.ONEILL_20",
			FileInfo{Site: "Six_points_cruise", Frequency: models.FrequencyPoint, Retrieval: models.RetrievalSDA, Level: 20},
		},
		{
			"/some/dir/Tara_daily.lev15",
			FileInfo{Site: "Tara", Frequency: models.FrequencyDaily, Retrieval: models.RetrievalAOD, Level: 15},
		},
	}
	for _, c := range cases {
		got, err := ParseName(c.name)
		if err != nil {
			t.Errorf("ParseName(%q): %v", c.name, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ParseName(%q) mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestParseNameRejects(t *testing.T) {
	cases := []string{
		"Tara_daily",               // no suffix
		"Tara_daily.",              // empty suffix
		"Tara_daily.csv",           // unknown retrieval suffix
		"Tara_daily.lev",           // no level digits
		"Tara_daily.lev25",         // level not 10/15/20
		"Tara_daily.ONEILL_xx",     // non-numeric level
		"Tara_weekly.lev15",        // unknown frequency tag
		"daily.lev15",              // tag with no site name
		"data_usage_policy.txt",    // policy doc shape
	}
	for _, name := range cases {
		if _, err := ParseName(name); err == nil {
			t.Errorf("ParseName(%q) should fail", name)
		} else if _, ok := err.(*ParseError); !ok {
			t.Errorf("ParseName(%q) returned %T, want *ParseError", name, err)
		}
	}
}
