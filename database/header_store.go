// backend/database/header_store.go
package database

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/models"
)

// SaveHeader registers a header record under its (frequency, datatype,
// level) key. First file wins: the table carries a unique index on the
// key triple and the INSERT IGNORE makes a second registration a silent
// no-op, so the originally-captured preamble text stays canonical no
// matter how many files with the same key follow, in whatever order.
func SaveHeader(h *models.HeaderRecord) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	res, err := DB.Exec(`
		INSERT IGNORE INTO man_table_headers (
			freq, datatype, level, base_header_l1, base_header_l2, header_line
		) VALUES (?, ?, ?, ?, ?, ?)
	`, h.Frequency, h.Retrieval, h.Level, h.PreambleL1, h.PreambleL2, h.Header)
	if err != nil {
		return fmt.Errorf("failed to save header %s/%s/%d: %w", h.Frequency, h.Retrieval, h.Level, err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("Registered header for %s/%s/%d.", h.Frequency, h.Retrieval, h.Level)
	}
	return nil
}

// GetHeader fetches the registered header for a key triple; a nil record
// (no error) means no file of that shape has ever been ingested.
func GetHeader(freq models.Frequency, kind models.Retrieval, level int) (*models.HeaderRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var h models.HeaderRecord
	err := DB.QueryRow(`
		SELECT id, freq, datatype, level, base_header_l1, base_header_l2, header_line
		FROM man_table_headers
		WHERE freq = ? AND datatype = ? AND level = ?
	`, freq, kind, level).Scan(
		&h.ID, &h.Frequency, &h.Retrieval, &h.Level,
		&h.PreambleL1, &h.PreambleL2, &h.Header,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query header %s/%s/%d: %w", freq, kind, level, err)
	}
	return &h, nil
}
