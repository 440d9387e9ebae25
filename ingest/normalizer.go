// backend/ingest/normalizer.go
package ingest

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/models"
)

// rawDateLayout is the archive date format once the colon separators are
// normalized: DD:MM:YYYY -> DD-MM-YYYY.
const rawDateLayout = "02-01-2006"

// parseRawDate normalizes and parses an archive date value. Unparseable
// values yield the nil sentinel rather than an error: a bad date must not
// cost the rest of the row.
func parseRawDate(value string) *time.Time {
	value = strings.ReplaceAll(strings.TrimSpace(value), ":", "-")
	t, err := time.Parse(rawDateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// Normalize converts a parsed raw file into canonical measurements of the
// matching variant. Row-level failures are logged with cruise and file
// context and skipped; they never abort the batch.
//
// When the input is an AOD daily level-1.5 file the first row also yields
// a Site summary: that file class is how new sites are discovered.
func Normalize(raw *RawFile, logger *log.Logger) ([]models.Measurement, *models.Site) {
	kind := raw.Info.Retrieval
	records := make([]models.Measurement, 0, len(raw.Rows))

	for i, row := range raw.Rows {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row["Latitude"]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(row["Longitude"]), 64)
		if latErr != nil || lngErr != nil {
			logger.WithFields(log.Fields{
				"cruise": raw.Cruise,
				"file":   raw.Path,
				"row":    i,
			}).Warnf("skipping row: bad coordinates lat=%q lng=%q", row["Latitude"], row["Longitude"])
			continue
		}

		m := models.Measurement{
			Cruise:    raw.Cruise,
			Level:     raw.Info.Level,
			PI:        raw.PI,
			PIEmail:   raw.PIEmail,
			Longitude: lng,
			Latitude:  lat,
			Fields:    make(map[string]string, len(row)),
		}

		for rawLabel, value := range row {
			if rawLabel == "Latitude" || rawLabel == "Longitude" {
				continue
			}
			switch canonical := catalog.Rename(kind, rawLabel); canonical {
			case "date":
				m.Date = parseRawDate(value)
			case "time":
				m.Time = strings.TrimSpace(value)
			case "last_processing_date":
				m.LastProcessed = parseRawDate(value)
			default:
				m.Fields[canonical] = value
			}
		}

		records = append(records, m)
	}

	var site *models.Site
	if kind == models.RetrievalAOD &&
		raw.Info.Frequency == models.FrequencyDaily &&
		raw.Info.Level == models.Level15 &&
		len(records) > 0 {
		aeronet, _ := strconv.Atoi(strings.TrimSpace(records[0].Fields["aeronet_number"]))
		site = &models.Site{
			Name:          raw.Cruise,
			AeronetNumber: aeronet,
			Description:   "?",
		}
	}

	return records, site
}
