// backend/handlers/download_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/models"
	"github.com/seaviz/maritime/backend/services"
)

// exportStatus maps an export failure to a response code. Failures in
// our own storage or while writing the archive are server errors;
// anything else means the request asked for something invalid.
func exportStatus(err error) int {
	var archiveErr *services.ArchiveError
	var storeErr *services.StoreError
	if errors.As(err, &archiveErr) || errors.As(err, &storeErr) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// DownloadHandler handles POST /api/download/: it builds a zip archive of
// csv datasets matching the filters in the JSON body and streams it back.
// The staging folder and the zip are removed once the response is sent,
// on success and failure alike.
func DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req models.DownloadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := services.ExportData(req)
	if err != nil {
		respondWithError(w, exportStatus(err), fmt.Sprintf("Export failed: %v", err))
		return
	}
	defer result.Cleanup()

	f, err := os.Open(result.ArchivePath)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to open archive: %v", err))
		return
	}
	defer f.Close()

	log.Printf("Serving export archive %s", result.Filename)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("Error streaming archive %s: %v", result.Filename, err)
	}
}
