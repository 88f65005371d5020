package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Service string
	Path    string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Service, e.Path, e.Status, e.Body)
}

// CheckResp returns a *StatusError if the status is not 2xx.
// On error it includes (up to 4KB of) the upstream body for debugging.
func CheckResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Service: service, Path: path, Status: resp.StatusCode, Body: string(body)}
}
