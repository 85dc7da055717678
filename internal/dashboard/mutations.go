package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"stocktrack/internal/api"
	"stocktrack/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type MutationOp int

const (
	OpCreate MutationOp = iota
	OpUpdate
	OpDelete
)

func (op MutationOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// MutationDoneMsg reports the outcome of a create, update or delete.
type MutationDoneMsg struct {
	Op MutationOp
	ID int64
	// Item is the record returned by the store, when it returned one.
	Item *model.Item
	// Tag echoes the value passed to Save so callers can match completions.
	Tag uint64
	Err error
}

var ErrMutationInFlight = errors.New("a save is already in progress")

// MutationCoordinator runs mutations against the transport and triggers a
// refresh on success. It never touches the ItemStore itself.
type MutationCoordinator struct {
	transport Transport
	fetcher   *SearchFetcher
	timeout   time.Duration
	logger    *log.Logger

	saving bool
}

func newMutationCoordinator(t Transport, fetcher *SearchFetcher, timeout time.Duration, logger *log.Logger) *MutationCoordinator {
	return &MutationCoordinator{transport: t, fetcher: fetcher, timeout: timeout, logger: logger}
}

// Saving reports whether a save is in flight.
func (c *MutationCoordinator) Saving() bool { return c.saving }

// Save updates item when it has an id and creates it otherwise.
func (c *MutationCoordinator) Save(item model.Item, tag uint64) (tea.Cmd, error) {
	if c.saving {
		return nil, ErrMutationInFlight
	}
	c.saving = true

	op := OpCreate
	endpoint := "/items"
	method := http.MethodPost
	var id int64
	if item.HasID() {
		op = OpUpdate
		id = *item.ID
		endpoint = api.ItemEndpoint(id)
		method = http.MethodPut
	}
	body := item.Clone()
	return c.run(op, id, tag, endpoint, method, body), nil
}

func (c *MutationCoordinator) Remove(id int64) tea.Cmd {
	return c.run(OpDelete, id, 0, api.ItemEndpoint(id), http.MethodDelete, nil)
}

func (c *MutationCoordinator) run(op MutationOp, id int64, tag uint64, endpoint, method string, body any) tea.Cmd {
	t := c.transport
	timeout := c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		out := MutationDoneMsg{Op: op, ID: id, Tag: tag}
		raw, err := t.Request(ctx, endpoint, method, body)
		if err != nil {
			out.Err = err
			return out
		}
		if len(raw) > 0 {
			var it model.Item
			if err := json.Unmarshal(raw, &it); err == nil {
				out.Item = &it
				if op == OpCreate && it.ID != nil {
					out.ID = *it.ID
				}
			}
		}
		return out
	}
}

// Complete settles a finished mutation and returns the refresh to run, if any.
func (c *MutationCoordinator) Complete(msg MutationDoneMsg) tea.Cmd {
	if msg.Op != OpDelete {
		c.saving = false
	}
	if msg.Err != nil {
		c.logger.Printf("%s failed id=%d: %v", msg.Op, msg.ID, msg.Err)
		return nil
	}
	return c.fetcher.Refresh()
}
