package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "parkzone/internal/errors"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps service failures to status codes. NoCapacity carries the
// observed free-spot count so the UI can suggest alternatives; unknown
// errors become opaque 500s (the services already logged the context).
func writeError(w http.ResponseWriter, err error) {
	var capErr *apperrors.CapacityError
	if errors.As(err, &capErr) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"message":    "no capacity for the requested window",
			"free_spots": capErr.FreeSpots,
		})
		return
	}
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Message, httpErr.Code)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
