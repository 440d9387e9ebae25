// backend/handlers/download_handler_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/seaviz/maritime/backend/services"
)

func TestExportStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"archive failure", &services.ArchiveError{Op: "zip", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"store failure", &services.StoreError{Op: "query AOD/Daily", Err: errors.New("connection refused")}, http.StatusInternalServerError},
		{"wrapped store failure", fmt.Errorf("export: %w", &services.StoreError{Op: "header", Err: errors.New("down")}), http.StatusInternalServerError},
		{"bad request parameters", errors.New(`unknown quality "Level 3.0"`), http.StatusBadRequest},
		{"empty selection", errors.New("no data matched the requested filters"), http.StatusBadRequest},
	}
	for _, c := range cases {
		if got := exportStatus(c.err); got != c.want {
			t.Errorf("%s: exportStatus = %d, want %d", c.name, got, c.want)
		}
	}
}
