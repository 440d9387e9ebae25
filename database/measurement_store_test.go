// backend/database/measurement_store_test.go
package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/seaviz/maritime/backend/models"
)

func meas(cruise string, level int, day, tm string) models.Measurement {
	m := models.Measurement{Cruise: cruise, Level: level, Time: tm}
	if day != "" {
		d, _ := time.Parse(models.DateLayout, day)
		m.Date = &d
	}
	return m
}

func TestDedupRecords(t *testing.T) {
	records := []models.Measurement{
		meas("Tara", 15, "2015-06-01", "12:00:00"),
		meas("Tara", 15, "2015-06-01", "12:00:00"), // intra-batch duplicate
		meas("Tara", 15, "2015-06-01", "13:00:00"),
		meas("Tara", 20, "2015-06-01", "12:00:00"), // same moment, other level
		meas("Tara", 15, "", "12:00:00"),           // nil date is its own key
	}
	persistedRec := meas("Tara", 15, "2015-06-01", "13:00:00")
	existing := map[string]bool{
		persistedRec.NaturalKey(): true,
	}

	pending, skipped := dedupRecords(records, existing)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2 (one batch dup, one already persisted)", skipped)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}

	// Re-running the surviving set against itself must skip everything.
	persisted := make(map[string]bool, len(pending))
	for i := range pending {
		persisted[pending[i].NaturalKey()] = true
	}
	again, skippedAgain := dedupRecords(pending, persisted)
	if len(again) != 0 || skippedAgain != len(pending) {
		t.Errorf("re-ingest got %d pending, %d skipped; want 0 pending", len(again), skippedAgain)
	}
}

func TestKeyOfMatchesNaturalKey(t *testing.T) {
	m := meas("Polarstern_17", 15, "2015-06-01", "12:30:45")
	got := keyOf(m.Cruise, m.Level, sql.NullTime{Time: *m.Date, Valid: true}, m.Time)
	if got != m.NaturalKey() {
		t.Errorf("keyOf = %q, NaturalKey = %q; existence check and dedup must agree", got, m.NaturalKey())
	}

	m = meas("Polarstern_17", 15, "", "12:30:45")
	got = keyOf(m.Cruise, m.Level, sql.NullTime{}, m.Time)
	if got != m.NaturalKey() {
		t.Errorf("nil-date keyOf = %q, NaturalKey = %q", got, m.NaturalKey())
	}
}

func TestPlaceholders(t *testing.T) {
	if p := placeholders(1); p != "?" {
		t.Errorf("placeholders(1) = %q", p)
	}
	if p := placeholders(3); p != "?,?,?" {
		t.Errorf("placeholders(3) = %q", p)
	}
}
