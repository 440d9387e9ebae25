// backend/ingest/source_checker.go
package ingest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// SourceStatus is what the download-page check found: the tarball link as
// currently published plus the text around it (the page carries a
// "last updated" note next to the link).
type SourceStatus struct {
	PageURL     string    `json:"page_url"`
	ArchiveHref string    `json:"archive_href"`
	Note        string    `json:"note,omitempty"`
	Checked     time.Time `json:"checked"`
}

// CheckSourcePage scrapes the MAN download page and confirms an anchor to
// the All_MAN_Data tarball is still published. Used as a cheap freshness
// probe before committing to a full archive download; a failure here is a
// warning, not a reason to abort anything.
func CheckSourcePage(pageURL string, logger *log.Logger) (*SourceStatus, error) {
	logger.Printf("Checking MAN source page %s", pageURL)

	client := http.Client{Timeout: 20 * time.Second}
	res, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	status := &SourceStatus{PageURL: pageURL, Checked: time.Now().UTC()}
	doc.Find("a[href]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.Contains(href, "All_MAN_Data") {
			status.ArchiveHref = href
			status.Note = strings.TrimSpace(sel.Parent().Text())
			return false
		}
		return true
	})

	if status.ArchiveHref == "" {
		return nil, fmt.Errorf("no All_MAN_Data link found on %s", pageURL)
	}

	logger.Printf("Source page check OK: archive link %s", status.ArchiveHref)
	return status, nil
}
