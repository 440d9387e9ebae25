// backend/ingest/downloader.go
package ingest

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gzip "github.com/klauspost/pgzip"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
)

// DownloadError signals a failed archive fetch. It aborts the current
// ingestion run; nothing partial is left behind.
type DownloadError struct {
	URL    string
	Reason string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %s", e.URL, e.Reason)
}

// EnsureSource makes sure the raw source directory is populated. If the
// directory already has entries the download is skipped entirely, the
// same shortcut the batch has always taken on re-runs.
func EnsureSource(url, srcDir string, logger *log.Logger) error {
	if entries, err := os.ReadDir(srcDir); err == nil && len(entries) > 0 {
		logger.Printf("Source folder %s exists, skipping download.", srcDir)
		return nil
	}
	logger.Printf("Source folder %s missing or empty, downloading MAN data.", srcDir)
	return FetchArchive(url, srcDir, logger)
}

// FetchArchive downloads the gzip-compressed MAN tarball and extracts it
// into srcDir. The nested per-site directory layer is flattened: every
// regular file lands in srcDir under its base name, which is where the
// rest of the pipeline expects it.
func FetchArchive(url, srcDir string, logger *log.Logger) error {
	logger.Printf("Downloading MAN archive from %s", url)

	client := pester.New()
	client.Timeout = 10 * time.Minute
	client.MaxRetries = 3
	client.Backoff = pester.ExponentialBackoff

	resp, err := client.Get(url)
	if err != nil {
		return &DownloadError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Reason: fmt.Sprintf("status code %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return &DownloadError{URL: url, Reason: fmt.Sprintf("create %s: %v", srcDir, err)}
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return &DownloadError{URL: url, Reason: fmt.Sprintf("gzip: %v", err)}
	}
	defer gz.Close()

	count := 0
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &DownloadError{URL: url, Reason: fmt.Sprintf("tar: %v", err)}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		dest := filepath.Join(srcDir, filepath.Base(hdr.Name))
		out, err := os.Create(dest)
		if err != nil {
			return &DownloadError{URL: url, Reason: fmt.Sprintf("create %s: %v", dest, err)}
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return &DownloadError{URL: url, Reason: fmt.Sprintf("extract %s: %v", hdr.Name, err)}
		}
		out.Close()
		count++
	}

	logger.Printf("Extracted %d files from MAN archive into %s", count, srcDir)
	return nil
}
