package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medetk/storefront/internal/product/domain"
	"github.com/medetk/storefront/internal/product/usecase/command"
	"github.com/medetk/storefront/internal/product/usecase/query"
	"github.com/medetk/storefront/pkg/logger"
)

// ProductHandler handles storefront product requests using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	listHandler       *query.ListProductsHandler
	getProductHandler *query.GetProductHandler
	categoriesHandler *query.GetCategoriesHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	listHandler *query.ListProductsHandler,
	getProductHandler *query.GetProductHandler,
	categoriesHandler *query.GetCategoriesHandler,
) *ProductHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_requests_total",
			Help: "Total number of product requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_product_request_duration_seconds",
			Help:    "Duration of product requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		listHandler:       listHandler,
		getProductHandler: getProductHandler,
		categoriesHandler: categoriesHandler,
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
	}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/categories", h.metricsMiddleware("/api/products/categories", h.GetCategories)).Methods("GET")
	router.HandleFunc("/api/products/category-list", h.metricsMiddleware("/api/products/category-list", h.GetCategoryList)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.PatchProduct)).Methods("PATCH")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.DeleteProduct)).Methods("DELETE")
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	limit, _ := strconv.Atoi(params.Get("limit"))
	skip, _ := strconv.Atoi(params.Get("skip"))

	q := query.ListProductsQuery{
		SearchText: params.Get("q"),
		Category:   params.Get("category"),
		SortBy:     domain.SortBy(params.Get("sortBy")),
		Order:      domain.SortOrder(params.Get("order")),
		Limit:      limit,
		Skip:       skip,
	}

	result, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to fetch product")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// GetCategories handles GET /api/products/categories
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoriesHandler.Handle(r.Context())
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to fetch categories")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

// GetCategoryList handles GET /api/products/category-list
func (h *ProductHandler) GetCategoryList(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.categoriesHandler.HandleList(r.Context())
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to fetch category list")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: slugs})
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{Input: input})
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PatchProduct handles PATCH /api/products/{id}
func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var input domain.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	cmd := command.UpdateProductCommand{ProductID: id, Input: input, Partial: partial}
	product, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	result, err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ProductID: id})
	if err != nil {
		h.respondCatalogError(w, r, err, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
		Data:    result,
	})
}

// respondCatalogError maps catalog failures onto the response. Cancelled
// fetches are discarded without a response body or an error log: the caller
// superseded the request or went away.
func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if domain.IsCancelled(err) {
		logger.Debug(r.Context()).Str("path", r.URL.Path).Msg("Catalog fetch superseded, result discarded")
		return
	}

	logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg(message)
	respondJSON(w, catalogStatus(err), Response{Success: false, Error: err.Error()})
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return 0, false
	}
	return id, true
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ProductHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}
