package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stocktrack/internal/model"
)

// ListEndpoint picks the unfiltered list for an empty query and the search endpoint otherwise.
func ListEndpoint(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "/items"
	}
	return "/items/search?" + url.Values{"q": []string{query}}.Encode()
}

func ItemEndpoint(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}

// DecodeItems decodes a list payload. A nil or JSON null payload is an empty list.
func DecodeItems(raw json.RawMessage) ([]model.Item, error) {
	if len(raw) == 0 {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func decodeItem(raw json.RawMessage) (*model.Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var it model.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &it, nil
}

func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	return c.FetchItems(ctx, "")
}

func (c *Client) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	return c.FetchItems(ctx, query)
}

func (c *Client) FetchItems(ctx context.Context, query string) ([]model.Item, error) {
	raw, err := c.Request(ctx, ListEndpoint(query), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return DecodeItems(raw)
}

func (c *Client) GetItem(ctx context.Context, id int64) (model.Item, error) {
	raw, err := c.Request(ctx, ItemEndpoint(id), http.MethodGet, nil)
	if err != nil {
		return model.Item{}, err
	}
	it, err := decodeItem(raw)
	if err != nil {
		return model.Item{}, err
	}
	if it == nil {
		return model.Item{}, fmt.Errorf("get item %d: empty response", id)
	}
	return *it, nil
}

func (c *Client) CreateItem(ctx context.Context, it model.Item) (model.Item, error) {
	it.ID = nil
	raw, err := c.Request(ctx, "/items", http.MethodPost, it)
	if err != nil {
		return model.Item{}, err
	}
	created, err := decodeItem(raw)
	if err != nil {
		return model.Item{}, err
	}
	if created == nil {
		return it, nil
	}
	return *created, nil
}

// UpdateItem returns the updated item, or nil when the store answered 204.
func (c *Client) UpdateItem(ctx context.Context, id int64, it model.Item) (*model.Item, error) {
	it.ID = &id
	raw, err := c.Request(ctx, ItemEndpoint(id), http.MethodPut, it)
	if err != nil {
		return nil, err
	}
	return decodeItem(raw)
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	_, err := c.Request(ctx, ItemEndpoint(id), http.MethodDelete, nil)
	return err
}
