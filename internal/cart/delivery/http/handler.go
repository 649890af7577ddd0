package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medetk/storefront/internal/cart/bus"
	cartdomain "github.com/medetk/storefront/internal/cart/domain"
	"github.com/medetk/storefront/internal/cart/usecase/command"
	"github.com/medetk/storefront/internal/cart/usecase/query"
	productdomain "github.com/medetk/storefront/internal/product/domain"
	productquery "github.com/medetk/storefront/internal/product/usecase/query"
	"github.com/medetk/storefront/pkg/logger"
)

// CartHandler handles cart requests using CQRS pattern
type CartHandler struct {
	// Command handlers
	addHandler      *command.AddItemHandler
	removeHandler   *command.RemoveItemHandler
	decreaseHandler *command.DecreaseQuantityHandler
	clearHandler    *command.ClearCartHandler

	// Query handlers
	itemsHandler *query.GetItemsHandler
	idsHandler   *query.GetIDsHandler
	countHandler *query.GetCountHandler

	bus     *bus.Bus
	catalog productquery.ProductFetcher

	mutationCounter *prometheus.CounterVec
	cartUnits       prometheus.Gauge
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	addHandler *command.AddItemHandler,
	removeHandler *command.RemoveItemHandler,
	decreaseHandler *command.DecreaseQuantityHandler,
	clearHandler *command.ClearCartHandler,
	itemsHandler *query.GetItemsHandler,
	idsHandler *query.GetIDsHandler,
	countHandler *query.GetCountHandler,
	eventBus *bus.Bus,
	catalog productquery.ProductFetcher,
) *CartHandler {
	mutationCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation", "status"},
	)

	cartUnits := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_cart_units",
			Help: "Units currently in the cart",
		},
	)

	prometheus.MustRegister(mutationCounter)
	prometheus.MustRegister(cartUnits)

	return &CartHandler{
		addHandler:      addHandler,
		removeHandler:   removeHandler,
		decreaseHandler: decreaseHandler,
		clearHandler:    clearHandler,
		itemsHandler:    itemsHandler,
		idsHandler:      idsHandler,
		countHandler:    countHandler,
		bus:             eventBus,
		catalog:         catalog,
		mutationCounter: mutationCounter,
		cartUnits:       cartUnits,
	}
}

// RegisterRoutes registers the cart routes
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart", h.GetItems).Methods("GET")
	router.HandleFunc("/api/cart/ids", h.GetIDs).Methods("GET")
	router.HandleFunc("/api/cart/count", h.GetCount).Methods("GET")
	router.HandleFunc("/api/cart/detailed", h.GetDetailed).Methods("GET")
	router.HandleFunc("/api/cart/events", h.Events).Methods("GET")

	router.HandleFunc("/api/cart/items/{id}", h.AddItem).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}/decrease", h.DecreaseQuantity).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}", h.RemoveItem).Methods("DELETE")
	router.HandleFunc("/api/cart", h.ClearCart).Methods("DELETE")
}

// GetItems handles GET /api/cart
func (h *CartHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	items := h.itemsHandler.Handle(r.Context(), query.GetItemsQuery{})
	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// GetIDs handles GET /api/cart/ids; legacy expansion for callers not yet
// quantity-aware
func (h *CartHandler) GetIDs(w http.ResponseWriter, r *http.Request) {
	ids := h.idsHandler.Handle(r.Context(), query.GetIDsQuery{})
	respondJSON(w, http.StatusOK, Response{Success: true, Data: ids})
}

// GetCount handles GET /api/cart/count; drives the badge
func (h *CartHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	count := h.countHandler.Handle(r.Context(), query.GetCountQuery{})
	h.cartUnits.Set(float64(count))
	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]int{"count": count}})
}

// DetailedItem is a cart row joined with its catalog product. A product the
// catalog no longer serves degrades the row to unavailable; the id stays so
// the row can still be removed.
type DetailedItem struct {
	ProductID int                    `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Available bool                   `json:"available"`
	Product   *productdomain.Product `json:"product,omitempty"`
}

// GetDetailed handles GET /api/cart/detailed
func (h *CartHandler) GetDetailed(w http.ResponseWriter, r *http.Request) {
	items := h.itemsHandler.Handle(r.Context(), query.GetItemsQuery{})

	rows := make([]DetailedItem, 0, len(items))
	for _, item := range items {
		row := DetailedItem{ProductID: item.ProductID, Quantity: item.Quantity}

		product, err := h.catalog.Product(r.Context(), item.ProductID)
		switch {
		case err == nil:
			row.Available = true
			row.Product = product
		case productdomain.IsCancelled(err):
			// The whole request is gone; stop fetching rows
			return
		default:
			// One degraded row must not block the rest of the cart
			logger.Warn(r.Context()).
				Err(err).
				Int("product_id", item.ProductID).
				Msg("Cart row product unavailable")
		}
		rows = append(rows, row)
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// AddItem handles POST /api/cart/items/{id}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	items, err := h.addHandler.Handle(r.Context(), command.AddItemCommand{ProductID: id})
	if err != nil {
		h.respondMutationError(w, r, "add", err)
		return
	}

	h.mutationCounter.WithLabelValues("add", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// DecreaseQuantity handles POST /api/cart/items/{id}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	items, err := h.decreaseHandler.Handle(r.Context(), command.DecreaseQuantityCommand{ProductID: id})
	if err != nil {
		h.respondMutationError(w, r, "decrease", err)
		return
	}

	h.mutationCounter.WithLabelValues("decrease", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	items, err := h.removeHandler.Handle(r.Context(), command.RemoveItemCommand{ProductID: id})
	if err != nil {
		h.respondMutationError(w, r, "remove", err)
		return
	}

	h.mutationCounter.WithLabelValues("remove", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.clearHandler.Handle(r.Context(), command.ClearCartCommand{}); err != nil {
		h.respondMutationError(w, r, "clear", err)
		return
	}

	h.mutationCounter.WithLabelValues("clear", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Cart cleared"})
}

// respondMutationError reports a failed cart write. Write failures are never
// swallowed: silently losing a user's mutation is worse than a visible error.
func (h *CartHandler) respondMutationError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	h.mutationCounter.WithLabelValues(operation, "error").Inc()

	if errors.Is(err, cartdomain.ErrInvalidProductID) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	logger.Error(r.Context()).Err(err).Str("operation", operation).Msg("Cart mutation failed")
	respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Cart update failed"})
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return 0, false
	}
	return id, true
}

// Response is the uniform JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// heartbeatInterval keeps idle SSE connections from being reaped by proxies
const heartbeatInterval = 30 * time.Second
