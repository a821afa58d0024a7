package netx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every dashboard JSON response. Success follows the
// status code.
type Envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
}

// WriteJSON encodes v with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Reply writes e with the given status code
func Reply(w http.ResponseWriter, status int, e Envelope) error {
	e.Success = status < http.StatusBadRequest
	return WriteJSON(w, status, e)
}

// Fail writes an error envelope. err may be nil.
func Fail(w http.ResponseWriter, status int, message string, err error) error {
	e := Envelope{Message: message}
	if err != nil {
		e.Error = err.Error()
	}
	return Reply(w, status, e)
}

// AllowMethod answers 405 for every method but the given one
func AllowMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			Fail(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
			return
		}
		h(w, r)
	}
}
