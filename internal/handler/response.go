package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bloghub/bloghub-go/internal/model"
)

// envelope is the response shape every endpoint uses.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// listEnvelope extends the envelope with the pagination fields of the
// post listing.
type listEnvelope struct {
	Success     bool `json:"success"`
	Count       int  `json:"count"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Data        any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeList(w http.ResponseWriter, status int, result model.ListPostsResult) {
	writeJSON(w, status, listEnvelope{
		Success:     true,
		Count:       result.Count,
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Data:        result.Posts,
	})
}
