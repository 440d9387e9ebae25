// backend/services/ingest_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jszwec/csvutil"
	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/config"
	"github.com/seaviz/maritime/backend/database"
	"github.com/seaviz/maritime/backend/ingest"
	"github.com/seaviz/maritime/backend/models"
)

// fileResult is one worker's outcome for one raw file. Workers never
// touch shared counters; everything flows back through channels and is
// reduced by the driver.
type fileResult struct {
	path    string
	variant catalog.Variant
	records []models.Measurement
	site    *models.Site
	err     error
}

type loadJob struct {
	path    string
	records []models.Measurement
}

type loadResult struct {
	path    string
	variant catalog.Variant
	summary models.LoadSummary
	err     error
}

// newRunLogger builds the per-run logger: everything also goes to a
// durable log_dbpush_<timestamp>.txt so contained failures can be
// reprocessed by hand later.
func newRunLogger(workDir string) (*log.Logger, func(), error) {
	name := filepath.Join(workDir, fmt.Sprintf("log_dbpush_%s.txt", time.Now().Format("20060102150405")))
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create run log %s: %w", name, err)
	}
	logger := log.New()
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return logger, func() { f.Close() }, nil
}

// listRawFiles walks the source directory for raw archive files,
// skipping our own csv artifacts and the policy documents that ship
// inside the tarball.
func listRawFiles(srcDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".txt", ".pdf":
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source dir %s: %w", srcDir, err)
	}
	return files, nil
}

// processFile is the per-worker unit: parse, register the header
// (first-wins, so parallel order does not matter), normalize.
func processFile(path string, logger *log.Logger) fileResult {
	raw, err := ingest.ParseFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if err := database.SaveHeader(ingest.HeaderFromRaw(raw)); err != nil {
		// Header registration failing must not cost the file's data.
		logger.Printf("WARN: header registration for %s: %v", path, err)
	}

	variant := catalog.Variant{Retrieval: raw.Info.Retrieval, Frequency: raw.Info.Frequency}
	records, site := ingest.Normalize(raw, logger)
	return fileResult{path: path, variant: variant, records: records, site: site}
}

// RunIngestion executes one full batch: ensure the source archive is
// present, fan the raw files out to a parse/normalize worker pool, and
// funnel each variant's loads through exactly one writer goroutine so
// the dedup-then-insert key-space is never raced from inside this
// process (the unique index covers anything outside it).
func RunIngestion() (models.RunSummary, error) {
	cfg := config.AppConfig

	logger, closeLog, err := newRunLogger(cfg.Man.WorkDir)
	if err != nil {
		return models.RunSummary{}, err
	}
	defer closeLog()

	if err := ingest.EnsureSource(cfg.Man.ArchiveURL, cfg.Man.SrcDir, logger); err != nil {
		// A failed fetch aborts the run; nothing partial was written.
		logger.Errorf("Ingestion aborted: %v", err)
		return models.RunSummary{}, err
	}

	files, err := listRawFiles(cfg.Man.SrcDir)
	if err != nil {
		return models.RunSummary{}, err
	}
	logger.Printf("Ingestion run starting: %d raw files, %d workers.", len(files), cfg.Ingest.Workers)

	jobs := make(chan string)
	parsed := make(chan fileResult)

	var parseWG sync.WaitGroup
	for i := 0; i < cfg.Ingest.Workers; i++ {
		parseWG.Add(1)
		go func() {
			defer parseWG.Done()
			for path := range jobs {
				parsed <- processFile(path, logger)
			}
		}()
	}
	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
	}()
	go func() {
		parseWG.Wait()
		close(parsed)
	}()

	loads := make(map[catalog.Variant]chan loadJob, len(catalog.Variants()))
	done := make(chan loadResult)
	var writeWG sync.WaitGroup
	for _, v := range catalog.Variants() {
		ch := make(chan loadJob, 4)
		loads[v] = ch
		writeWG.Add(1)
		go func(v catalog.Variant, ch chan loadJob) {
			defer writeWG.Done()
			for job := range ch {
				summary, err := database.InsertMeasurements(v, job.records)
				done <- loadResult{path: job.path, variant: v, summary: summary, err: err}
			}
		}(v, ch)
	}
	go func() {
		writeWG.Wait()
		close(done)
	}()

	// The dispatcher owns parse failures and discovered sites; the main
	// loop below owns load outcomes. The two partial summaries are merged
	// at the end instead of sharing counters.
	type parsePart struct {
		failed int
		sites  map[string]*models.Site
	}
	partCh := make(chan parsePart, 1)
	go func() {
		part := parsePart{sites: make(map[string]*models.Site)}
		for res := range parsed {
			if res.err != nil {
				part.failed++
				fields := log.Fields{"file": res.path}
				if pe, ok := res.err.(*ingest.ParseError); ok {
					fields["cruise"] = pe.Cruise
					fields["header"] = strings.Join(pe.Header, ",")
				}
				logger.WithFields(fields).Errorf("failed to process file: %v", res.err)
				continue
			}
			if res.site != nil {
				part.sites[res.site.Name] = res.site
			}
			loads[res.variant] <- loadJob{path: res.path, records: res.records}
		}
		for _, ch := range loads {
			close(ch)
		}
		partCh <- part
	}()

	var summary models.RunSummary
	for lr := range done {
		if lr.err != nil {
			summary.FilesFailed++
			logger.WithFields(log.Fields{
				"file":    lr.path,
				"variant": lr.variant.String(),
			}).Errorf("load failed, transaction rolled back: %v", lr.err)
			continue
		}
		summary.FilesProcessed++
		summary.Inserted += lr.summary.Inserted
		summary.Skipped += lr.summary.Skipped
	}

	part := <-partCh
	summary.FilesFailed += part.failed
	summary.SitesFound = len(part.sites)

	if err := saveSites(part.sites, cfg.Man.WorkDir, logger); err != nil {
		logger.Errorf("site bookkeeping: %v", err)
	}

	logger.Printf("Ingestion run finished: %d files ok, %d failed, %d rows inserted, %d skipped, %d sites.",
		summary.FilesProcessed, summary.FilesFailed, summary.Inserted, summary.Skipped, summary.SitesFound)
	return summary, nil
}

// saveSites upserts every discovered site, recomputes its date span, and
// writes the sites.csv run artifact.
func saveSites(sites map[string]*models.Site, workDir string, logger *log.Logger) error {
	if len(sites) == 0 {
		return nil
	}

	list := make([]models.Site, 0, len(sites))
	for _, s := range sites {
		if err := database.UpsertSite(s); err != nil {
			logger.Errorf("upsert site %s: %v", s.Name, err)
			continue
		}
		if err := database.RecalcSiteSpan(s.Name); err != nil {
			logger.Errorf("recalc span for site %s: %v", s.Name, err)
		}
		list = append(list, *s)
	}

	b, err := csvutil.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal sites.csv: %w", err)
	}
	out := filepath.Join(workDir, "sites.csv")
	if err := os.WriteFile(out, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Printf("Wrote %s (%d sites).", out, len(list))
	return nil
}
