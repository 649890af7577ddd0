package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetk/storefront/internal/cart/bus"
	"github.com/medetk/storefront/internal/cart/repository"
	"github.com/medetk/storefront/internal/cart/usecase/command"
	"github.com/medetk/storefront/internal/cart/usecase/query"
	productdomain "github.com/medetk/storefront/internal/product/domain"
	"github.com/medetk/storefront/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("cart-http-test", false)
	m.Run()
}

// stubCatalog serves products from a fixed map
type stubCatalog struct {
	products map[int]*productdomain.Product
	err      error
}

func (s *stubCatalog) Product(ctx context.Context, id int) (*productdomain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, &productdomain.APIError{Status: http.StatusNotFound, Message: "not found"}
}

// The prometheus collectors register globally, so the handler is built once
// and tests reset its storage between runs.
var (
	fixtureOnce    sync.Once
	fixtureStorage *repository.MemoryStorage
	fixtureBus     *bus.Bus
	fixtureCatalog *stubCatalog
	fixtureRouter  *mux.Router
)

func setup(t *testing.T) {
	t.Helper()

	fixtureOnce.Do(func() {
		fixtureStorage = repository.NewMemoryStorage()
		fixtureBus = bus.NewBus()
		fixtureCatalog = &stubCatalog{}
		store := repository.NewStore(fixtureStorage)

		handler := NewCartHandler(
			command.NewAddItemHandler(store, fixtureBus),
			command.NewRemoveItemHandler(store, fixtureBus),
			command.NewDecreaseQuantityHandler(store, fixtureBus),
			command.NewClearCartHandler(store, fixtureBus),
			query.NewGetItemsHandler(store),
			query.NewGetIDsHandler(store),
			query.NewGetCountHandler(store),
			fixtureBus,
			fixtureCatalog,
		)

		fixtureRouter = mux.NewRouter()
		handler.RegisterRoutes(fixtureRouter)
	})

	require.NoError(t, fixtureStorage.Delete(context.Background()))
	fixtureCatalog.products = map[int]*productdomain.Product{}
	fixtureCatalog.err = nil
}

func doRequest(t *testing.T, method, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	fixtureRouter.ServeHTTP(rec, req)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAddItem_ReturnsUpdatedItems(t *testing.T) {
	setup(t)

	rec, body := doRequest(t, http.MethodPost, "/api/cart/items/3")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	items, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	entry := items[0].(map[string]interface{})
	assert.Equal(t, float64(3), entry["productId"])
	assert.Equal(t, float64(1), entry["quantity"])
}

func TestAddItem_NonNumericIDIsBadRequest(t *testing.T) {
	setup(t)

	rec, body := doRequest(t, http.MethodPost, "/api/cart/items/abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid product ID", body.Error)
}

func TestAddItem_NonPositiveIDIsBadRequest(t *testing.T) {
	setup(t)

	rec, body := doRequest(t, http.MethodPost, "/api/cart/items/0")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "invalid product id")
}

func TestCartFlow_AddDecreaseRemoveClear(t *testing.T) {
	setup(t)

	doRequest(t, http.MethodPost, "/api/cart/items/3")
	doRequest(t, http.MethodPost, "/api/cart/items/3")
	doRequest(t, http.MethodPost, "/api/cart/items/7")

	_, body := doRequest(t, http.MethodGet, "/api/cart/count")
	counts := body.Data.(map[string]interface{})
	assert.Equal(t, float64(3), counts["count"])

	_, body = doRequest(t, http.MethodGet, "/api/cart/ids")
	assert.Equal(t, []interface{}{float64(3), float64(3), float64(7)}, body.Data)

	doRequest(t, http.MethodPost, "/api/cart/items/3/decrease")
	_, body = doRequest(t, http.MethodGet, "/api/cart/ids")
	assert.Equal(t, []interface{}{float64(3), float64(7)}, body.Data)

	doRequest(t, http.MethodDelete, "/api/cart/items/7")
	_, body = doRequest(t, http.MethodGet, "/api/cart/ids")
	assert.Equal(t, []interface{}{float64(3)}, body.Data)

	rec, body := doRequest(t, http.MethodDelete, "/api/cart")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart cleared", body.Message)

	_, body = doRequest(t, http.MethodGet, "/api/cart")
	assert.Empty(t, body.Data)
}

func TestGetDetailed_DegradesUnavailableRows(t *testing.T) {
	setup(t)
	fixtureCatalog.products = map[int]*productdomain.Product{
		3: {ID: 3, Title: "Phone", Price: 599},
	}

	doRequest(t, http.MethodPost, "/api/cart/items/3")
	doRequest(t, http.MethodPost, "/api/cart/items/99")

	rec, body := doRequest(t, http.MethodGet, "/api/cart/detailed")

	assert.Equal(t, http.StatusOK, rec.Code)
	rows := body.Data.([]interface{})
	require.Len(t, rows, 2)

	available := rows[0].(map[string]interface{})
	assert.Equal(t, float64(3), available["productId"])
	assert.Equal(t, true, available["available"])
	require.NotNil(t, available["product"])
	assert.Equal(t, "Phone", available["product"].(map[string]interface{})["title"])

	degraded := rows[1].(map[string]interface{})
	assert.Equal(t, float64(99), degraded["productId"])
	assert.Equal(t, false, degraded["available"])
	assert.Nil(t, degraded["product"])
}

func TestMutations_PublishExactlyOneSignal(t *testing.T) {
	setup(t)
	token, signals := fixtureBus.Subscribe()
	defer fixtureBus.Unsubscribe(token)

	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/api/cart/items/3"},
		{http.MethodPost, "/api/cart/items/3/decrease"},
		{http.MethodDelete, "/api/cart/items/3"},
		{http.MethodDelete, "/api/cart"},
	} {
		rec, _ := doRequest(t, req.method, req.path)
		require.Equal(t, http.StatusOK, rec.Code, "%s %s", req.method, req.path)

		select {
		case <-signals:
		default:
			t.Fatalf("%s %s published no signal", req.method, req.path)
		}
		select {
		case <-signals:
			t.Fatalf("%s %s published more than one signal", req.method, req.path)
		default:
		}
	}
}

func TestQueries_PublishNothing(t *testing.T) {
	setup(t)
	token, signals := fixtureBus.Subscribe()
	defer fixtureBus.Unsubscribe(token)

	for _, path := range []string{"/api/cart", "/api/cart/ids", "/api/cart/count", "/api/cart/detailed"} {
		doRequest(t, http.MethodGet, path)
	}

	select {
	case <-signals:
		t.Fatal("read endpoints must not publish")
	default:
	}
}

func TestEvents_StreamsSignalOnMutation(t *testing.T) {
	setup(t)
	server := httptest.NewServer(fixtureRouter)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/cart/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, ": connected"))

	// The subscription exists once the comment arrived, so a mutation now
	// is guaranteed to reach this stream
	mutation, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL+"/api/cart/items/5", nil)
	require.NoError(t, err)
	mutResp, err := http.DefaultClient.Do(mutation)
	require.NoError(t, err)
	mutResp.Body.Close()
	require.Equal(t, http.StatusOK, mutResp.StatusCode)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, fmt.Sprintf("event: %s", bus.EventCartUpdated)) {
			return
		}
	}
}
