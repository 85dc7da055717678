package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"stocktrack/internal/dashboard"
	"stocktrack/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeStore struct {
	items  map[int64]model.Item
	nextID int64
	calls  []string
}

func newFakeStore(items ...model.Item) *fakeStore {
	s := &fakeStore{items: map[int64]model.Item{}, nextID: 1}
	for _, it := range items {
		s.items[it.IDValue()] = it
		if it.IDValue() >= s.nextID {
			s.nextID = it.IDValue() + 1
		}
	}
	return s
}

func (s *fakeStore) Request(_ context.Context, endpoint string, method string, body any) (json.RawMessage, error) {
	s.calls = append(s.calls, method+" "+endpoint)
	switch {
	case method == http.MethodGet && endpoint == "/items":
		return json.Marshal(s.list(""))
	case method == http.MethodGet && strings.HasPrefix(endpoint, "/items/search?"):
		v, _ := url.ParseQuery(strings.TrimPrefix(endpoint, "/items/search?"))
		return json.Marshal(s.list(v.Get("q")))
	case method == http.MethodPost:
		it := body.(model.Item).WithID(s.nextID)
		s.nextID++
		s.items[it.IDValue()] = it
		return json.Marshal(it)
	case method == http.MethodPut:
		id, _ := strconv.ParseInt(strings.TrimPrefix(endpoint, "/items/"), 10, 64)
		s.items[id] = body.(model.Item).WithID(id)
		return nil, nil
	case method == http.MethodDelete:
		id, _ := strconv.ParseInt(strings.TrimPrefix(endpoint, "/items/"), 10, 64)
		delete(s.items, id)
		return nil, nil
	}
	return nil, errors.New("unexpected " + method + " " + endpoint)
}

func (s *fakeStore) list(q string) []model.Item {
	out := []model.Item{}
	for _, it := range s.items {
		if q != "" && !strings.Contains(strings.ToLower(it.Name+" "+it.SKU), strings.ToLower(q)) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *fakeStore) count(prefix string) int {
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T, s *fakeStore) appModel {
	t.Helper()
	dash := dashboard.New(dashboard.Options{Transport: s, Debounce: time.Millisecond, RequestTimeout: time.Second})
	m := newAppModel(dash)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = mm.(appModel)
	return drain(t, m, m.Init())
}

// drain runs cmd and everything it leads to. Commands that do not finish
// quickly (cursor blink timers) are dropped.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command queue did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runWithTimeout(c, 100*time.Millisecond)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		var next tea.Cmd
		var mm tea.Model
		mm, next = m.Update(msg)
		m = mm.(appModel)
		queue = append(queue, next)
	}
	return m
}

func runWithTimeout(c tea.Cmd, d time.Duration) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d):
		return nil, false
	}
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		mm, cmd := m.Update(k)
		m = drain(t, mm.(appModel), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(s string) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func seeded() *fakeStore {
	return newFakeStore(
		model.Item{Name: "Bolt", SKU: "B-1", Quantity: 10, Description: "Zinc plated **M8**"}.WithID(1),
		model.Item{Name: "Washer", SKU: "W-1", Quantity: 2}.WithID(2),
	)
}

func TestApp_InitLoadsItemsIntoList(t *testing.T) {
	m := newTestApp(t, seeded())

	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	out := m.View()
	for _, want := range []string{"Inventory", "Bolt", "Washer", "2 items"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}

func TestApp_AddItemWithCtrlS(t *testing.T) {
	s := seeded()
	m := newTestApp(t, s)

	m = press(t, m, runes("a"))
	if m.dash.Modal().Kind() != dashboard.ModalEditing || m.editor == nil {
		t.Fatalf("expected editor to open")
	}
	if !strings.Contains(m.View(), "Add New Item") {
		t.Fatalf("expected add title in view")
	}

	m = press(t, m, typeText("Nut")...)
	m = press(t, m, keyTab)
	m = press(t, m, typeText("N-1")...)
	m = press(t, m, keySave)

	if s.count("POST /items") != 1 {
		t.Fatalf("expected one POST, calls=%v", s.calls)
	}
	if m.dash.Modal().Kind() != dashboard.ModalClosed {
		t.Fatalf("expected editor to close after save, got %s", m.dash.Modal().Kind())
	}
	if got := len(m.list.Items()); got != 3 {
		t.Fatalf("expected refreshed list with 3 rows, got %d", got)
	}
}

func TestApp_InvalidEditorShowsErrorAndStaysOpen(t *testing.T) {
	s := seeded()
	m := newTestApp(t, s)

	m = press(t, m, runes("a"), keySave)

	if m.dash.Modal().Kind() != dashboard.ModalEditing {
		t.Fatalf("expected editor to stay open")
	}
	if m.editor == nil || !strings.Contains(m.editor.err, "name") {
		t.Fatalf("expected a name validation error, got %+v", m.editor)
	}
	if s.count("POST") != 0 {
		t.Fatalf("invalid form must not be sent")
	}

	m = press(t, m, keyEsc)
	if m.dash.Modal().Kind() != dashboard.ModalClosed || m.editor != nil {
		t.Fatalf("expected esc to close the editor")
	}
}

func TestApp_EditPrefillsSelectedItem(t *testing.T) {
	m := newTestApp(t, seeded())

	m = press(t, m, runes("e"))
	if m.editor == nil {
		t.Fatalf("expected editor to open")
	}
	got := m.editor.value()
	if got.Name != "Bolt" || got.SKU != "B-1" || got.Quantity != "10" || got.ID == nil || *got.ID != 1 {
		t.Fatalf("unexpected prefill %+v", got)
	}
}

func TestApp_DeleteConfirmWithY(t *testing.T) {
	s := seeded()
	m := newTestApp(t, s)

	m = press(t, m, runes("d"))
	if id, ok := m.dash.Modal().ConfirmingDelete(); !ok || id != 1 {
		t.Fatalf("expected confirm for item 1, got %s", m.dash.Modal().Kind())
	}
	if !strings.Contains(m.View(), "permanently delete") {
		t.Fatalf("expected confirm dialog in view")
	}

	mm, cmd := m.Update(runes("y"))
	m = mm.(appModel)
	if m.dash.Modal().Kind() != dashboard.ModalClosed {
		t.Fatalf("confirm must close the dialog before the delete completes")
	}
	m = drain(t, m, cmd)

	if s.count("DELETE /items/1") != 1 {
		t.Fatalf("expected one DELETE, calls=%v", s.calls)
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("expected 1 row after delete, got %d", got)
	}
}

func TestApp_DeleteDialogFocusAndCancel(t *testing.T) {
	s := seeded()
	m := newTestApp(t, s)

	// Focus starts on Delete; tab moves it to Cancel.
	m = press(t, m, runes("d"), keyTab, keyEnter)
	if m.dash.Modal().Kind() != dashboard.ModalClosed {
		t.Fatalf("expected dialog to close on cancel")
	}
	if s.count("DELETE") != 0 {
		t.Fatalf("cancel must not delete")
	}

	m = press(t, m, runes("d"), keyEsc)
	if m.dash.Modal().Kind() != dashboard.ModalClosed || s.count("DELETE") != 0 {
		t.Fatalf("esc must cancel without deleting")
	}
}

func TestApp_SearchTypingFetchesFilteredList(t *testing.T) {
	s := seeded()
	m := newTestApp(t, s)

	m = press(t, m, runes("/"))
	if m.focus != focusSearch {
		t.Fatalf("expected search focus")
	}
	m = press(t, m, typeText("wash")...)

	if m.dash.Query() != "wash" {
		t.Fatalf("expected query wash, got %q", m.dash.Query())
	}
	if s.count("GET /items/search?q=wash") != 1 {
		t.Fatalf("expected a search for the final query, calls=%v", s.calls)
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("expected 1 filtered row, got %d", got)
	}

	m = press(t, m, keyEsc)
	if m.focus != focusList {
		t.Fatalf("expected esc to return focus to the list")
	}
}

func TestApp_QuitKeys(t *testing.T) {
	m := newTestApp(t, seeded())

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
