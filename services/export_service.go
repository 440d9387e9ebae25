// backend/services/export_service.go
package services

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/config"
	"github.com/seaviz/maritime/backend/database"
	"github.com/seaviz/maritime/backend/ingest"
	"github.com/seaviz/maritime/backend/models"
)

// qualityLevels maps the quality labels the frontend sends to the
// numeric levels the tables are keyed by.
var qualityLevels = map[string]int{
	"Level 1.0": 10,
	"Level 1.5": 15,
	"Level 2.0": 20,
}

// epochDate is the start of the MAN record. The UI sends it (and
// today's date) as placeholders when the user left the range open.
const epochDate = "2004-10-16"

// ExportResult is a built archive plus the cleanup the caller must run
// once the bytes have been streamed out.
type ExportResult struct {
	ArchivePath string
	Filename    string
	Cleanup     func()
}

// ArchiveError marks a failure while materializing the export on disk,
// as opposed to a bad request. Handlers map it to a server error.
type ArchiveError struct {
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// StoreError marks a database failure while assembling an export. Like
// ArchiveError it is ours, not the caller's: handlers map it to a server
// error instead of blaming the request.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// boundsFrom assembles a bounding box from the four optional request
// corners. Partial or inverted boxes disable the filter entirely rather
// than guessing at intent.
func boundsFrom(minLat, minLng, maxLat, maxLng *float64) *database.Bounds {
	if minLat == nil || minLng == nil || maxLat == nil || maxLng == nil {
		return nil
	}
	if *minLat > *maxLat || *minLng > *maxLng {
		return nil
	}
	return &database.Bounds{MinLat: *minLat, MinLng: *minLng, MaxLat: *maxLat, MaxLng: *maxLng}
}

// parseRequestDate parses a requested date, truncated to the day. An
// empty string means "unbounded".
func parseRequestDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, fmt.Errorf("unparseable date %q: %w", value, err)
	}
	parsed, _ := time.Parse(models.DateLayout, t.Format(models.DateLayout))
	return &parsed, nil
}

// parseStartDate interprets the lower bound of a requested range. The UI
// sends the dataset epoch as a placeholder when the user left the start
// open; the placeholder only ever appears on this end.
func parseStartDate(value string) (*time.Time, error) {
	if value == epochDate {
		return nil, nil
	}
	return parseRequestDate(value)
}

// parseEndDate interprets the upper bound. Here the placeholder is
// today's date; an explicit epoch date stays a real (if useless) bound.
func parseEndDate(value string) (*time.Time, error) {
	d, err := parseRequestDate(value)
	if err != nil || d == nil {
		return d, err
	}
	if d.Format(models.DateLayout) == time.Now().Format(models.DateLayout) {
		return nil, nil
	}
	return d, nil
}

// ExportData builds a zip archive of csv datasets matching the request:
// one file per retrieval x frequency x quality combination that has both
// a registered header and at least one matching row. The returned
// Cleanup removes the staging folder and the zip; it is safe to call
// exactly once, after the archive has been served.
func ExportData(req models.DownloadRequest) (*ExportResult, error) {
	if len(req.Sites) == 0 {
		return nil, fmt.Errorf("no sites requested")
	}

	start, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseEndDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	bounds := boundsFrom(req.MinLat, req.MinLng, req.MaxLat, req.MaxLng)

	cfg := config.AppConfig
	stamp := time.Now().Unix()
	stageDir := filepath.Join(cfg.Man.TempDir, fmt.Sprintf("%d_MAN_DATA", stamp))
	zipPath := filepath.Join(cfg.Man.TempDir, fmt.Sprintf("%d_MAN_DATA.zip", stamp))
	cleanup := func() {
		os.RemoveAll(stageDir)
		os.Remove(zipPath)
	}

	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return nil, &ArchiveError{Op: "stage", Err: err}
	}

	written := 0
	for _, retrieval := range req.Retrievals {
		for _, frequency := range req.Frequency {
			variant, err := catalog.Lookup(retrieval, frequency)
			if err != nil {
				cleanup()
				return nil, err
			}
			for _, quality := range req.Quality {
				level, ok := qualityLevels[quality]
				if !ok {
					cleanup()
					return nil, fmt.Errorf("unknown quality %q", quality)
				}

				header, err := database.GetHeader(variant.Frequency, variant.Retrieval, level)
				if err != nil {
					cleanup()
					return nil, &StoreError{Op: "header " + variant.String(), Err: err}
				}
				if header == nil {
					// Dataset never ingested at this level; nothing to export.
					continue
				}

				filter := database.MeasurementFilter{
					Sites:     req.Sites,
					Level:     level,
					StartDate: start,
					EndDate:   end,
					Bounds:    bounds,
				}
				records, err := database.QueryMeasurements(variant, filter)
				if err != nil {
					cleanup()
					return nil, &StoreError{Op: "query " + variant.String(), Err: err}
				}
				if len(records) == 0 {
					continue
				}

				name := fmt.Sprintf("%s%d.csv", variant.FileStem(), level)
				if err := writeExportFile(filepath.Join(stageDir, name), variant, header, records); err != nil {
					cleanup()
					return nil, &ArchiveError{Op: name, Err: err}
				}
				written++
			}
		}
	}

	if written == 0 {
		cleanup()
		return nil, fmt.Errorf("no data matched the requested filters")
	}

	copyPolicyDocs(cfg.Man.SrcDir, stageDir)

	if err := zipDirectory(stageDir, zipPath); err != nil {
		cleanup()
		return nil, &ArchiveError{Op: "zip", Err: err}
	}

	return &ExportResult{
		ArchivePath: zipPath,
		Filename:    fmt.Sprintf("%d_MAN_DATA.zip", stamp),
		Cleanup:     cleanup,
	}, nil
}

// writeExportFile renders one dataset in the original archive shape:
// the two preamble lines captured at ingestion, the interpolation note,
// the header line, then one csv row per measurement with the composite
// coordinate and cruise metadata appended.
func writeExportFile(path string, v catalog.Variant, header *models.HeaderRecord, records []models.Measurement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	headerLine := header.Header
	rowWidth := len(v.Fields()) + len(ingest.OutputColumns())
	if len(strings.Split(headerLine, ",")) != rowWidth {
		// The stored header came from a raw file whose column set drifted
		// from the catalog; fall back to the catalog's own labels.
		headerLine = strings.Join(ingest.ExportHeaderColumns(v), ",")
	}

	fmt.Fprintf(w, "%s\n", header.PreambleL1)
	fmt.Fprintf(w, "%s,** interpolated 500nm channel **\n", v.Frequency)
	fmt.Fprintf(w, "%s\n", header.PreambleL2)
	fmt.Fprintf(w, "%s\n", headerLine)

	fields := v.Fields()
	row := make([]string, 0, rowWidth)
	for _, m := range records {
		row = row[:0]
		for _, field := range fields {
			switch field {
			case "date":
				row = append(row, m.DateString())
			case "time":
				row = append(row, m.Time)
			case "last_processing_date":
				row = append(row, m.LastProcessedString())
			default:
				row = append(row, m.Fields[field])
			}
		}
		row = append(row,
			fmt.Sprintf("POINT (%g %g)", m.Longitude, m.Latitude),
			m.Cruise,
			strconv.Itoa(m.Level),
			m.PI,
			m.PIEmail,
		)
		fmt.Fprintf(w, "%s\n", strings.Join(row, ","))
	}
	return w.Flush()
}

// copyPolicyDocs carries the data usage policy documents from the raw
// archive into the export, when present.
func copyPolicyDocs(srcDir, stageDir string) {
	for _, name := range []string{"data_usage_policy.txt", "data_usage_policy.pdf"} {
		src := filepath.Join(srcDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(stageDir, name)); err != nil {
			log.Printf("WARN: failed to copy %s into export: %v", name, err)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// zipDirectory packs dir into zipPath, keeping the directory's own name
// as the top-level folder inside the archive.
func zipDirectory(dir, zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create zip %s: %w", zipPath, err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	base := filepath.Base(dir)
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.ToSlash(filepath.Join(base, rel)))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(entry, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to build zip: %w", err)
	}
	return zw.Close()
}
