package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stocktrack/internal/api"
	"stocktrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Repository) {
	t.Helper()
	repo, err := Open(context.Background(), "sqlite", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ts := httptest.NewServer(New(repo, Options{}).Routes())
	t.Cleanup(ts.Close)
	return ts, repo
}

func newTestClient(ts *httptest.Server) *api.Client {
	return api.New(api.Options{BaseURL: ts.URL + APIPrefix, HTTPClient: ts.Client()})
}

func seed(t *testing.T, repo *Repository, items ...model.Item) []model.Item {
	t.Helper()
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		created, err := repo.Create(context.Background(), it)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestRepository_SearchFiltersAndSorts(t *testing.T) {
	_, repo := newTestServer(t)
	seed(t, repo,
		model.Item{Name: "Wrench", SKU: "W-1", Quantity: 2},
		model.Item{Name: "Bolt", SKU: "B-1", Quantity: 50},
		model.Item{Name: "Anchor bolt", SKU: "AB-9", Quantity: 7},
	)
	ctx := context.Background()

	all, err := repo.List(ctx, SearchParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Anchor bolt", "Bolt", "Wrench"}, names(all))

	hits, err := repo.List(ctx, SearchParams{Query: "bolt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anchor bolt", "Bolt"}, names(hits))

	bySKU, err := repo.List(ctx, SearchParams{Query: "w-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wrench"}, names(bySKU))

	minQty := 5
	stocked, err := repo.List(ctx, SearchParams{MinQuantity: &minQty, Sort: "qty_desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bolt", "Anchor bolt"}, names(stocked))

	bogus, err := repo.List(ctx, SearchParams{Sort: "name; DROP TABLE inventory_items"})
	require.NoError(t, err)
	assert.Len(t, bogus, 3, "unknown sort falls back to name_asc")
}

func TestRepository_DuplicateSKUAndMissingRows(t *testing.T) {
	_, repo := newTestServer(t)
	ctx := context.Background()
	seeded := seed(t, repo, model.Item{Name: "Bolt", SKU: "B-1", Quantity: 1})

	_, err := repo.Create(ctx, model.Item{Name: "Other", SKU: "B-1"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, 999, model.Item{Name: "x", SKU: "y"}), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, seeded[0].IDValue()))
	_, err = repo.Get(ctx, seeded[0].IDValue())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutes_StatusCodes(t *testing.T) {
	ts, repo := newTestServer(t)
	seeded := seed(t, repo, model.Item{Name: "Bolt", SKU: "B-1", Quantity: 1})
	id := seeded[0].IDString()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		msg    string
	}{
		{name: "list", method: http.MethodGet, path: "/items", want: http.StatusOK},
		{name: "search", method: http.MethodGet, path: "/items/search?q=bo", want: http.StatusOK},
		{name: "search bad min_qty", method: http.MethodGet, path: "/items/search?min_qty=lots", want: http.StatusBadRequest},
		{name: "get", method: http.MethodGet, path: "/items/" + id, want: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/items/999", want: http.StatusNotFound, msg: "Item not found"},
		{name: "get bad id", method: http.MethodGet, path: "/items/abc", want: http.StatusBadRequest, msg: "Invalid item ID"},
		{name: "create", method: http.MethodPost, path: "/items", body: `{"name":"Nut","sku":"N-1","quantity":3}`, want: http.StatusCreated},
		{name: "create missing sku", method: http.MethodPost, path: "/items", body: `{"name":"Nut"}`, want: http.StatusBadRequest, msg: "Name and SKU are required fields"},
		{name: "create duplicate sku", method: http.MethodPost, path: "/items", body: `{"name":"Dup","sku":"B-1"}`, want: http.StatusConflict},
		{name: "create bad json", method: http.MethodPost, path: "/items", body: `{`, want: http.StatusBadRequest},
		{name: "update", method: http.MethodPut, path: "/items/" + id, body: `{"name":"Bolt M8","sku":"B-1","quantity":4}`, want: http.StatusNoContent},
		{name: "update missing", method: http.MethodPut, path: "/items/999", body: `{"name":"x","sku":"y"}`, want: http.StatusNotFound, msg: "Item not found or no changes made"},
		{name: "delete missing", method: http.MethodDelete, path: "/items/999", want: http.StatusNotFound, msg: "Item not found"},
		{name: "delete", method: http.MethodDelete, path: "/items/" + id, want: http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+APIPrefix+tc.path, strings.NewReader(tc.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.msg != "" {
				raw, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.msg, strings.TrimSpace(string(raw)))
			}
		})
	}
}

func TestRoutes_CORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+APIPrefix+"/items/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestClientAgainstServer_RoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newTestClient(ts)
	ctx := context.Background()

	created, err := c.CreateItem(ctx, model.Item{Name: "Bolt", SKU: "B-1", Quantity: 10, Description: "M8 zinc"})
	require.NoError(t, err)
	require.True(t, created.HasID())

	updated, err := c.UpdateItem(ctx, created.IDValue(), model.Item{Name: "Bolt", SKU: "B-1", Quantity: 12})
	require.NoError(t, err)
	assert.Nil(t, updated, "204 yields no payload")

	got, err := c.GetItem(ctx, created.IDValue())
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	hits, err := c.SearchItems(ctx, "bol")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, c.DeleteItem(ctx, created.IDValue()))

	err = c.DeleteItem(ctx, created.IDValue())
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "Item not found", err.Error())

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func names(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
