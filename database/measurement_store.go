// backend/database/measurement_store.go
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/catalog"
	"github.com/seaviz/maritime/backend/models"
)

// metaColumns are the typed columns every variant table shares, in the
// order InsertMeasurements and QueryMeasurements use them. The text
// payload columns follow, per the variant's field list.
var metaColumns = []string{
	"cruise", "level", "`date`", "`time`",
	"latitude", "longitude", "pi", "pi_email", "last_processing_date",
}

// Bounds is a geographic bounding box; containment is per-axis min/max.
type Bounds struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

// MeasurementFilter is the export/readout selection for one variant table.
type MeasurementFilter struct {
	Sites     []string
	Level     int
	StartDate *time.Time // inclusive, nil = open-ended
	EndDate   *time.Time // inclusive, nil = open-ended
	Bounds    *Bounds    // nil = no geographic filter
}

const insertChunkSize = 500

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func keyOf(cruise string, level int, date sql.NullTime, tm string) string {
	d := ""
	if date.Valid {
		d = date.Time.Format(models.DateLayout)
	}
	return fmt.Sprintf("%s|%d|%s|%s", cruise, level, d, tm)
}

// InsertMeasurements persists one file group of canonical records into
// the variant's table, inside a single transaction. Records whose natural
// key (cruise, level, date, time) already exists are skipped; the insert
// itself uses INSERT IGNORE under the table's unique index, so a
// concurrent writer racing the existence check degrades to "already
// present" instead of a duplicate or an error. Zero new records is the
// normal outcome when re-ingesting already-loaded data.
func InsertMeasurements(v catalog.Variant, records []models.Measurement) (models.LoadSummary, error) {
	var summary models.LoadSummary
	if DB == nil {
		return summary, fmt.Errorf("database connection is not initialized")
	}
	if len(records) == 0 {
		return summary, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction for %s: %w", v, err)
	}
	defer tx.Rollback()

	existing, err := existingKeys(tx, v, records)
	if err != nil {
		return summary, err
	}

	payload := v.PayloadFields()
	columns := strings.Join(append(append([]string{}, metaColumns...), quoteAll(payload)...), ", ")
	width := len(metaColumns) + len(payload)
	rowTuple := "(" + placeholders(width) + ")"

	pending, skipped := dedupRecords(records, existing)
	summary.Skipped += skipped

	for start := 0; start < len(pending); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		args := make([]interface{}, 0, len(chunk)*width)
		for i := range chunk {
			m := &chunk[i]
			args = append(args,
				m.Cruise, m.Level, nullDate(m.Date), m.Time,
				m.Latitude, m.Longitude, m.PI, m.PIEmail, nullDate(m.LastProcessed),
			)
			for _, f := range payload {
				args = append(args, m.Fields[f])
			}
		}

		query := fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES %s",
			v.Table(), columns,
			strings.TrimSuffix(strings.Repeat(rowTuple+",", len(chunk)), ","))
		res, err := tx.Exec(query, args...)
		if err != nil {
			return models.LoadSummary{}, fmt.Errorf("failed to insert %s batch: %w", v, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return models.LoadSummary{}, fmt.Errorf("rows affected for %s: %w", v, err)
		}
		summary.Inserted += int(n)
		// Rows the unique index rejected despite the pre-check lost a
		// race to another writer; count them as already present.
		summary.Skipped += len(chunk) - int(n)
	}

	if err := tx.Commit(); err != nil {
		return models.LoadSummary{}, fmt.Errorf("failed to commit %s batch: %w", v, err)
	}

	log.Printf("Loaded %d new %s records (%d skipped as duplicates).", summary.Inserted, v, summary.Skipped)
	return summary, nil
}

// dedupRecords drops every record whose natural key is already persisted
// or already appeared earlier in the same batch (archives repeat rows
// across the point/series/daily files of one cruise).
func dedupRecords(records []models.Measurement, existing map[string]bool) (pending []models.Measurement, skipped int) {
	seen := make(map[string]bool, len(records))
	for _, m := range records {
		key := m.NaturalKey()
		if existing[key] || seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		pending = append(pending, m)
	}
	return pending, skipped
}

// existingKeys fetches the natural keys already persisted for the
// cruises present in the candidate set.
func existingKeys(tx *sql.Tx, v catalog.Variant, records []models.Measurement) (map[string]bool, error) {
	cruiseSet := make(map[string]bool)
	for i := range records {
		cruiseSet[records[i].Cruise] = true
	}
	cruises := make([]interface{}, 0, len(cruiseSet))
	for c := range cruiseSet {
		cruises = append(cruises, c)
	}

	query := fmt.Sprintf(
		"SELECT cruise, level, `date`, `time` FROM %s WHERE cruise IN (%s)",
		v.Table(), placeholders(len(cruises)))
	rows, err := tx.Query(query, cruises...)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing %s keys: %w", v, err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cruise string
			level  int
			date   sql.NullTime
			tm     string
		)
		if err := rows.Scan(&cruise, &level, &date, &tm); err != nil {
			return nil, fmt.Errorf("failed to scan existing %s key: %w", v, err)
		}
		existing[keyOf(cruise, level, date, tm)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating existing %s keys: %w", v, err)
	}
	return existing, nil
}

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = "`" + c + "`"
	}
	return out
}

// QueryMeasurements retrieves the canonical records matching the filter
// from the variant's table, ordered for stable export output.
func QueryMeasurements(v catalog.Variant, f MeasurementFilter) ([]models.Measurement, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if len(f.Sites) == 0 {
		return nil, nil
	}

	payload := v.PayloadFields()
	columns := strings.Join(append(append([]string{}, metaColumns...), quoteAll(payload)...), ", ")

	var (
		conds = []string{fmt.Sprintf("cruise IN (%s)", placeholders(len(f.Sites))), "level = ?"}
		args  []interface{}
	)
	for _, s := range f.Sites {
		args = append(args, s)
	}
	args = append(args, f.Level)

	if f.StartDate != nil {
		conds = append(conds, "`date` >= ?")
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		conds = append(conds, "`date` <= ?")
		args = append(args, *f.EndDate)
	}
	if f.Bounds != nil {
		conds = append(conds, "latitude BETWEEN ? AND ?", "longitude BETWEEN ? AND ?")
		args = append(args, f.Bounds.MinLat, f.Bounds.MaxLat, f.Bounds.MinLng, f.Bounds.MaxLng)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY cruise, `date`, `time`",
		columns, v.Table(), strings.Join(conds, " AND "))
	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s measurements: %w", v, err)
	}
	defer rows.Close()

	var out []models.Measurement
	for rows.Next() {
		m := models.Measurement{Fields: make(map[string]string, len(payload))}
		var (
			date, lastProc sql.NullTime
			values         = make([]sql.NullString, len(payload))
			dest           = make([]interface{}, 0, len(metaColumns)+len(payload))
		)
		dest = append(dest, &m.Cruise, &m.Level, &date, &m.Time,
			&m.Latitude, &m.Longitude, &m.PI, &m.PIEmail, &lastProc)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", v, err)
		}
		if date.Valid {
			m.Date = &date.Time
		}
		if lastProc.Valid {
			m.LastProcessed = &lastProc.Time
		}
		for i, f := range payload {
			if values[i].Valid {
				m.Fields[f] = values[i].String
			}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", v, err)
	}
	return out, nil
}
