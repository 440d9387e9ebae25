// backend/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// Helper to decode a JSON request body
func decodeJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// IngestHandler handles POST /api/admin/ingest/. A plain POST runs a full
// ingestion batch synchronously and reports the run summary. With
// ?check=1 it only probes the upstream download page for the archive
// link, without fetching anything.
func IngestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	if r.URL.Query().Get("check") == "1" {
		status, err := services.CheckSource()
		if err != nil {
			respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Source page check failed: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, status)
		return
	}

	summary, err := services.RunIngestion()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Ingestion run failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
