package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/medetk/storefront/internal/product/domain"
	"github.com/medetk/storefront/pkg/logger"
)

// Endpoint paths of the remote catalog API
const (
	pathProducts     = "/products"
	pathSearch       = "/products/search"
	pathCategories   = "/products/categories"
	pathCategoryList = "/products/category-list"
	pathAdd          = "/products/add"
)

// ListParams are the pagination and sort parameters shared by the listing
// endpoints
type ListParams struct {
	Limit  int
	Skip   int
	SortBy domain.SortBy
	Order  domain.SortOrder
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.SortBy != "" {
		q.Set("sortBy", string(p.SortBy))
	}
	if p.Order != "" {
		q.Set("order", string(p.Order))
	}
	return q
}

// Client is the HTTP client for the remote product catalog. All failures are
// wrapped into domain.APIError except context cancellation, which passes
// through untouched so callers can discard superseded fetches silently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

// NewClient creates a catalog client with an instrumented transport
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: NewCircuitBreaker("catalog", 5, 30*time.Second),
	}
}

// Products fetches the plain paginated listing
func (c *Client) Products(ctx context.Context, p ListParams) (*domain.ProductsResponse, error) {
	var out domain.ProductsResponse
	if err := c.fetchJSON(ctx, http.MethodGet, pathProducts, p.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product fetches a single product by id
func (c *Client) Product(ctx context.Context, id int) (*domain.Product, error) {
	var out domain.Product
	path := fmt.Sprintf("%s/%d", pathProducts, id)
	if err := c.fetchJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search fetches the text-search listing
func (c *Client) Search(ctx context.Context, searchText string, p ListParams) (*domain.ProductsResponse, error) {
	q := p.query()
	q.Set("q", searchText)
	var out domain.ProductsResponse
	if err := c.fetchJSON(ctx, http.MethodGet, pathSearch, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByCategory fetches the category listing
func (c *Client) ByCategory(ctx context.Context, slug string, p ListParams) (*domain.ProductsResponse, error) {
	path := pathProducts + "/category/" + url.PathEscape(slug)
	var out domain.ProductsResponse
	if err := c.fetchJSON(ctx, http.MethodGet, path, p.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories fetches category slugs and display names
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.fetchJSON(ctx, http.MethodGet, pathCategories, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryList fetches the bare category slug list
func (c *Client) CategoryList(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.fetchJSON(ctx, http.MethodGet, pathCategoryList, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddProduct creates a product in the remote catalog. Per the remote
// service's semantics the write is simulated and not guaranteed to persist.
func (c *Client) AddProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.fetchJSON(ctx, http.MethodPost, pathAdd, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a product in the remote catalog
func (c *Client) UpdateProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error) {
	var out domain.Product
	path := fmt.Sprintf("%s/%d", pathProducts, id)
	if err := c.fetchJSON(ctx, http.MethodPut, path, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchProduct partially updates a product in the remote catalog
func (c *Client) PatchProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error) {
	var out domain.Product
	path := fmt.Sprintf("%s/%d", pathProducts, id)
	if err := c.fetchJSON(ctx, http.MethodPatch, path, nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct deletes a product in the remote catalog
func (c *Client) DeleteProduct(ctx context.Context, id int) (*domain.DeleteProductResult, error) {
	var out domain.DeleteProductResult
	path := fmt.Sprintf("%s/%d", pathProducts, id)
	if err := c.fetchJSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// fetchJSON performs one catalog request with uniform error wrapping
func (c *Client) fetchJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.breaker.Call(func() error {
		return c.do(req, fullURL, out)
	})
}

func (c *Client) do(req *http.Request, fullURL string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation passes through so the caller can tell a superseded
		// fetch from a real failure
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.APIError{Status: 0, Message: err.Error(), URL: fullURL}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.APIError{Status: 0, Message: err.Error(), URL: fullURL}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload, &errBody) == nil && errBody.Message != "" {
			message = errBody.Message
		}
		logger.Warn(req.Context()).
			Int("status", resp.StatusCode).
			Str("url", fullURL).
			Msg("Catalog request failed")
		return &domain.APIError{Status: resp.StatusCode, Message: message, URL: fullURL}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.APIError{
			Status:  http.StatusInternalServerError,
			Message: "invalid JSON response from server",
			URL:     fullURL,
		}
	}
	return nil
}
