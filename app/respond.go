package app

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SendsJSON reports whether the request body is JSON.
func SendsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// RespondJSON writes v as a 200 JSON response.
func RespondJSON(w http.ResponseWriter, v interface{}) {
	RespondStatus(w, http.StatusOK, v)
}

// RespondStatus writes v as JSON with the given status code.
func RespondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log("app", "encode response: %v", err)
	}
}

// RespondError writes a JSON error body.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondStatus(w, status, map[string]string{"error": msg})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	RespondError(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	RespondError(w, http.StatusNotFound, msg)
}

func Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	RespondError(w, http.StatusConflict, msg)
}

func ServerError(w http.ResponseWriter, r *http.Request, msg string) {
	RespondError(w, http.StatusInternalServerError, msg)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
}
