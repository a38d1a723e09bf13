// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// StatusCode returns code when it is a status with a standard text, and
// 500 otherwise.
func StatusCode(code int) int {
	if http.StatusText(code) == "" {
		return http.StatusInternalServerError
	}
	return code
}

// WriteJSON writes data as a JSON response with the given status code.
// Content-Type and Content-Length are always set; the body is omitted for
// HEAD requests.
func WriteJSON(w http.ResponseWriter, method string, status int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(StatusCode(status))
	if method == http.MethodHead {
		return nil
	}
	_, err = w.Write(body)
	return err
}

// WriteError writes {"error": {"message": message}} with the given status code.
func WriteError(w http.ResponseWriter, method string, status int, message string) error {
	return WriteJSON(w, method, status, map[string]map[string]string{
		"error": {"message": message},
	})
}
