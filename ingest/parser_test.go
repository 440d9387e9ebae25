// backend/ingest/parser_test.go
package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleAODDaily mirrors the archive layout: two free-text preamble
// lines, the cruise line, the PI line, the column header, then data. The
// PI name carries an embedded comma and a Latin-1 byte (0xe9) on purpose.
const sampleAODDaily = "Maritime Aerosol Network Version 3 data\n" +
	"Polarstern_17,RV Polarstern cruise 17\n" +
	"Data usage requires contacting the PI\n" +
	"PI=R\xe9my,Jean,Email=jremy@example.org\n" +
	"Date(dd:mm:yyyy),Time(hh:mm:ss),Air Mass,Latitude,Longitude,AOD_340nm,AOD_500nm(int),AERONET_Number,Last_Processing_Date(dd:mm:yyyy)\n" +
	"16:10:2004,12:30:45,1.50,-60.5000,5.2500,0.1200,0.3000,123,01:02:2020\n" +
	"17:10:2004,09:15:00,2.10,-61.0000,5.5000,0.1100\n" +
	"\n"

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeSample(t, "Polarstern_17_daily.lev15", sampleAODDaily)

	raw, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if raw.Cruise != "Polarstern_17" {
		t.Errorf("Cruise = %q", raw.Cruise)
	}
	if raw.PI != "Rémy" {
		t.Errorf("PI = %q, want the Latin-1 name decoded and truncated at the comma", raw.PI)
	}
	if raw.PIEmail != "jremy@example.org" {
		t.Errorf("PIEmail = %q", raw.PIEmail)
	}
	if raw.PreambleL1 != "Maritime Aerosol Network Version 3 data" {
		t.Errorf("PreambleL1 = %q", raw.PreambleL1)
	}
	if raw.PreambleL2 != "Data usage requires contacting the PI" {
		t.Errorf("PreambleL2 = %q", raw.PreambleL2)
	}

	wantHeader := []string{
		"Date(dd:mm:yyyy)", "Time(hh:mm:ss)", "Air Mass",
		"Latitude", "Longitude", "AOD_340nm", "AOD_500nm",
		"AERONET_Number", "Last_Processing_Date(dd:mm:yyyy)",
	}
	if diff := cmp.Diff(wantHeader, raw.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	if len(raw.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (trailing blank line skipped)", len(raw.Rows))
	}
	if raw.Rows[0]["AOD_500nm"] != "0.3000" {
		t.Errorf("row 0 AOD_500nm = %q", raw.Rows[0]["AOD_500nm"])
	}
	// The second row is shorter than the header; zipping truncates.
	if _, ok := raw.Rows[1]["AOD_500nm"]; ok {
		t.Error("short row should not have a value for AOD_500nm")
	}
	if raw.Rows[1]["AOD_340nm"] != "0.1100" {
		t.Errorf("row 1 AOD_340nm = %q", raw.Rows[1]["AOD_340nm"])
	}
}

func TestParseFileTooShort(t *testing.T) {
	path := writeSample(t, "Tara_daily.lev15", "line0\nline1\nline2\n")
	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestParseFileBadPILine(t *testing.T) {
	content := "p1\nTara,desc\np2\nno pi tokens here\nDate(dd:mm:yyyy),Latitude,Longitude\n16:10:2004,0,0\n"
	path := writeSample(t, "Tara_daily.lev15", content)
	_, err := ParseFile(path)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T (%v), want *ParseError", err, err)
	}
	if pe.Cruise != "Tara" {
		t.Errorf("ParseError.Cruise = %q, want the cruise for the run log", pe.Cruise)
	}
	wantHeader := []string{"Date(dd:mm:yyyy)", "Latitude", "Longitude"}
	if diff := cmp.Diff(wantHeader, pe.Header); diff != "" {
		t.Errorf("ParseError.Header snapshot mismatch (-want +got):\n%s", diff)
	}
}
