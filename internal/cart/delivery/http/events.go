package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/medetk/storefront/internal/cart/bus"
	"github.com/medetk/storefront/pkg/logger"
)

// Events handles GET /api/cart/events: a server-sent event stream carrying
// the payload-less cart-updated signal. Clients re-query the cart endpoints
// on each event instead of reading data off the stream, so no observer can
// render a stale payload. The subscription is dropped when the client
// disconnects.
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Streaming unsupported"})
		return
	}

	token, signals := h.bus.Subscribe()
	defer h.bus.Unsubscribe(token)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Confirm the stream before the first mutation
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	logger.Debug(r.Context()).Str("subscription", token).Msg("Cart event stream opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug(r.Context()).Str("subscription", token).Msg("Cart event stream closed")
			return
		case _, open := <-signals:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata:\n\n", bus.EventCartUpdated)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
