package transport

import (
	"encoding/json"
	"net/http"
)

// Body is a JSON object answer. Every status response carries "status" and "message".
type Body map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteStatus writes {"status": status, "message": message} merged with extra.
func WriteStatus(w http.ResponseWriter, status int, message string, extra Body) {
	body := Body{
		"status":  status,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteStatus(w, status, message, nil)
}

// WriteInternal answers 500. The raw cause is only echoed when expose is set.
func WriteInternal(w http.ResponseWriter, err error, expose bool) {
	var extra Body
	if expose && err != nil {
		extra = Body{"error": err.Error()}
	}
	WriteStatus(w, http.StatusInternalServerError, "Internal server error", extra)
}
