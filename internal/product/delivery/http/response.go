package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medetk/storefront/internal/product/domain"
)

// Response is the uniform JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// catalogStatus maps an upstream error to the status served to the browser.
// Remote HTTP statuses pass through; connectivity failures become 502.
func catalogStatus(err error) int {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == 0 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
