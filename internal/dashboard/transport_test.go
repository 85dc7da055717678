package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"stocktrack/internal/api"
	"stocktrack/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type transportCall struct {
	endpoint string
	method   string
	body     any
}

// memoryTransport behaves like the record store over an in-memory table.
// fail, when set, overrides the response for matching calls.
type memoryTransport struct {
	items  map[int64]model.Item
	nextID int64
	calls  []transportCall
	fail   func(endpoint, method string) error
}

func newMemoryTransport(items ...model.Item) *memoryTransport {
	t := &memoryTransport{items: map[int64]model.Item{}, nextID: 1}
	for _, it := range items {
		t.items[it.IDValue()] = it.Clone()
		if it.IDValue() >= t.nextID {
			t.nextID = it.IDValue() + 1
		}
	}
	return t
}

func (t *memoryTransport) Request(_ context.Context, endpoint string, method string, body any) (json.RawMessage, error) {
	t.calls = append(t.calls, transportCall{endpoint: endpoint, method: method, body: body})
	if t.fail != nil {
		if err := t.fail(endpoint, method); err != nil {
			return nil, err
		}
	}

	switch {
	case method == http.MethodGet && endpoint == "/items":
		return json.Marshal(t.sorted(""))
	case method == http.MethodGet && strings.HasPrefix(endpoint, "/items/search?q="):
		q := strings.TrimPrefix(endpoint, "/items/search?q=")
		return json.Marshal(t.sorted(q))
	case method == http.MethodPost && endpoint == "/items":
		it := body.(model.Item).WithID(t.nextID)
		t.nextID++
		t.items[it.IDValue()] = it
		return json.Marshal(it)
	case method == http.MethodPut:
		id := t.idFrom(endpoint)
		if _, ok := t.items[id]; !ok {
			return nil, &api.HTTPError{Method: method, Endpoint: endpoint, Status: 404, Body: "Item not found"}
		}
		t.items[id] = body.(model.Item).WithID(id)
		return nil, nil
	case method == http.MethodDelete:
		id := t.idFrom(endpoint)
		if _, ok := t.items[id]; !ok {
			return nil, &api.HTTPError{Method: method, Endpoint: endpoint, Status: 404, Body: "Item not found"}
		}
		delete(t.items, id)
		return nil, nil
	}
	return nil, errors.New("unexpected request " + method + " " + endpoint)
}

func (t *memoryTransport) idFrom(endpoint string) int64 {
	id, _ := strconv.ParseInt(strings.TrimPrefix(endpoint, "/items/"), 10, 64)
	return id
}

func (t *memoryTransport) sorted(q string) []model.Item {
	out := []model.Item{}
	for _, it := range t.items {
		if q != "" && !strings.Contains(strings.ToLower(it.Name+" "+it.SKU), strings.ToLower(q)) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *memoryTransport) callsWith(method string) []transportCall {
	var out []transportCall
	for _, c := range t.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestModel(t *testing.T, tr Transport) *Model {
	t.Helper()
	return New(Options{Transport: tr, Debounce: time.Millisecond, RequestTimeout: time.Second})
}

// run executes cmd and feeds its message back into m, returning the follow-up command.
func run(m *Model, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return m.Update(cmd())
}

// settle runs cmd and every follow-up until nothing is left.
func settle(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		cmd = run(m, cmd)
	}
}
