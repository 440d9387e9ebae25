// backend/database/site_store.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/models"
)

// UpsertSite creates the site on first sight of its data and refreshes
// the aeronet number on later ingestions. The description stays whatever
// it was; ingestion only ever supplies the "?" placeholder.
func UpsertSite(s *models.Site) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		INSERT INTO man_sites (name, aeronet_number, description)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE aeronet_number = VALUES(aeronet_number)
	`, s.Name, s.AeronetNumber, s.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", s.Name, err)
	}
	return nil
}

// RecalcSiteSpan recomputes the [earliest, latest] measurement-date span
// for a site from the daily level-1.5 AOD table. Called after every load
// that touched the site so the span invariant holds.
func RecalcSiteSpan(name string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		UPDATE man_sites SET
			span_start = (SELECT MIN(`+"`date`"+`) FROM man_aod_daily WHERE cruise = ? AND level = 15),
			span_end   = (SELECT MAX(`+"`date`"+`) FROM man_aod_daily WHERE cruise = ? AND level = 15)
		WHERE name = ?
	`, name, name, name)
	if err != nil {
		return fmt.Errorf("failed to recalc span for site %s: %w", name, err)
	}
	return nil
}

// SiteFilter narrows the site listing. Bounds restrict to sites that have
// daily level-1.5 measurements inside the box; the date pair filters on
// span intersection.
type SiteFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Bounds    *Bounds
}

// ListSites returns sites ordered by span start, honoring the filter.
func ListSites(f SiteFilter) ([]models.Site, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var (
		conds []string
		args  []interface{}
	)

	if f.Bounds != nil {
		conds = append(conds, `name IN (
			SELECT DISTINCT cruise FROM man_aod_daily
			WHERE level = 15
			  AND latitude BETWEEN ? AND ?
			  AND longitude BETWEEN ? AND ?
		)`)
		args = append(args, f.Bounds.MinLat, f.Bounds.MaxLat, f.Bounds.MinLng, f.Bounds.MaxLng)
	}

	// Span intersection, mirroring the listing semantics the frontend
	// depends on: both dates -> overlap with [start, end]; start only ->
	// overlap with [start, today]; end only -> span covers end.
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		conds = append(conds, "(span_start <= ? AND span_end >= ?)")
		args = append(args, *f.EndDate, *f.StartDate)
	case f.StartDate != nil:
		today := time.Now()
		conds = append(conds, "(span_start <= ? AND span_end >= ?)")
		args = append(args, today, *f.StartDate)
	case f.EndDate != nil:
		conds = append(conds, "(span_start <= ? AND span_end >= ?)")
		args = append(args, *f.EndDate, *f.EndDate)
	}

	query := `SELECT name, aeronet_number, description, span_start, span_end FROM man_sites`
	if len(conds) > 0 {
		query += " WHERE " + joinConds(conds)
	}
	query += " ORDER BY span_start"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var (
			s          models.Site
			start, end sql.NullTime
		)
		if err := rows.Scan(&s.Name, &s.AeronetNumber, &s.Description, &start, &end); err != nil {
			log.Printf("ERROR: Failed to scan site row: %v", err)
			continue
		}
		if start.Valid {
			s.SpanStart = &start.Time
		}
		if end.Valid {
			s.SpanEnd = &end.Time
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site rows: %w", err)
	}
	return sites, nil
}

func joinConds(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}

// QueryReadings pulls one reading column per row from the daily level-1.5
// AOD table for the measurements endpoint. The column name must already
// be validated against the catalog by the caller.
func QueryReadings(column string, sites []string, f MeasurementFilter) ([]models.MeasurementPoint, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if len(sites) == 0 {
		return nil, nil
	}

	conds := []string{fmt.Sprintf("cruise IN (%s)", placeholders(len(sites))), "level = 15"}
	var args []interface{}
	for _, s := range sites {
		args = append(args, s)
	}
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

	query := fmt.Sprintf(
		"SELECT cruise, `date`, `time`, latitude, longitude, aeronet_number, `%s` FROM man_aod_daily WHERE %s",
		column, joinConds(conds))
	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var points []models.MeasurementPoint
	for rows.Next() {
		var (
			p        models.MeasurementPoint
			date     sql.NullTime
			lat, lng float64
			aeronet  sql.NullString
			value    sql.NullString
		)
		if err := rows.Scan(&p.Site, &date, &p.Time, &lat, &lng, &aeronet, &value); err != nil {
			log.Printf("ERROR: Failed to scan reading row: %v", err)
			continue
		}
		if date.Valid {
			p.Date = date.Time.Format(models.DateLayout)
		}
		p.Coordinates = &models.Coordinates{Lng: lng, Lat: lat}
		if aeronet.Valid {
			fmt.Sscanf(aeronet.String, "%d", &p.AeronetNumber)
		}
		if value.Valid {
			p.Value = value.String
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reading rows: %w", err)
	}
	return points, nil
}
