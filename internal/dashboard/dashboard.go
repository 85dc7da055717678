// Package dashboard holds the inventory dashboard's state and its transitions,
// independent of any rendering.
//
// All methods run on the bubbletea update goroutine. Network and timer work is
// returned as tea.Cmd values; their results come back through Update.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"stocktrack/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Transport is the request contract of the record store client (api.Client satisfies it).
type Transport interface {
	Request(ctx context.Context, endpoint string, method string, body any) (json.RawMessage, error)
}

const (
	FetchFailedMessage  = "Failed to fetch inventory items."
	SaveFailedMessage   = "Failed to save item."
	DeleteFailedMessage = "Failed to delete item."
)

var ErrNoDialog = errors.New("no dialog is open")

type Options struct {
	Transport      Transport
	Debounce       time.Duration
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// Model is the composed dashboard state: the item list view, the search query
// and the modal. It is changed only through the methods below.
type Model struct {
	store     *ItemStore
	fetcher   *SearchFetcher
	mutations *MutationCoordinator
	modal     ModalController
	editor    EditorForm
	logger    *log.Logger
}

func New(opts Options) *Model {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	store := NewItemStore()
	fetcher := newSearchFetcher(opts.Transport, store, debounce, timeout, logger)
	return &Model{
		store:     store,
		fetcher:   fetcher,
		mutations: newMutationCoordinator(opts.Transport, fetcher, timeout, logger),
		logger:    logger,
	}
}

// Init loads the unfiltered list.
func (m *Model) Init() tea.Cmd { return m.fetcher.Refresh() }

func (m *Model) View() ItemListView { return m.store.View() }

func (m *Model) Query() string { return m.fetcher.Query() }

func (m *Model) Modal() ModalState { return m.modal.State() }

// Editor returns the form of the open editor. It is the zero form when the editor is closed.
func (m *Model) Editor() EditorForm { return m.editor }

func (m *Model) Saving() bool { return m.mutations.Saving() }

// Dialog returns the confirm dialog to render while a delete is pending confirmation.
func (m *Model) Dialog() (Dialog, bool) {
	if _, ok := m.modal.State().ConfirmingDelete(); !ok {
		return Dialog{}, false
	}
	return deleteDialog(func() {}), true
}

func (m *Model) SetQuery(query string) tea.Cmd {
	return m.fetcher.OnQueryChange(query)
}

func (m *Model) Refresh() tea.Cmd {
	return m.fetcher.Refresh()
}

func (m *Model) OpenCreate() error {
	if err := m.modal.OpenForCreate(); err != nil {
		return err
	}
	m.editor = NewEditorForm(nil)
	return nil
}

func (m *Model) OpenEdit(item model.Item) error {
	if err := m.modal.OpenForEdit(item); err != nil {
		return err
	}
	it, _ := m.modal.State().Editing()
	m.editor = NewEditorForm(it)
	return nil
}

func (m *Model) OpenDelete(id int64) error {
	return m.modal.OpenConfirm(id)
}

// SubmitEditor validates form and starts the save. The editor stays open until
// the save succeeds.
func (m *Model) SubmitEditor(form EditorForm) (tea.Cmd, error) {
	st := m.modal.State()
	orig, ok := st.Editing()
	if !ok {
		return nil, ErrInvalidTransition
	}
	// The id always comes from the item the editor was opened with.
	form.ID = nil
	if orig != nil {
		form.ID = orig.Clone().ID
	}
	m.editor = form

	item, err := form.Item()
	if err != nil {
		return nil, err
	}
	return m.mutations.Save(item, st.Session())
}

// ResolveDialog applies a button press on the confirm dialog. Confirm closes the
// dialog right away and returns the delete to run.
func (m *Model) ResolveDialog(action DialogAction) (tea.Cmd, error) {
	if _, ok := m.modal.State().ConfirmingDelete(); !ok {
		return nil, ErrNoDialog
	}
	var cmd tea.Cmd
	d := deleteDialog(func() {
		id, err := m.modal.Confirm()
		if err != nil {
			return
		}
		cmd = m.mutations.Remove(id)
	})
	err := d.Invoke(action, func() {
		if m.modal.State().Kind() == ModalConfirmingDelete {
			_ = m.modal.Cancel()
		}
	})
	return cmd, err
}

// CancelModal closes whichever modal is open.
func (m *Model) CancelModal() error {
	if err := m.modal.Cancel(); err != nil {
		return err
	}
	m.editor = EditorForm{}
	return nil
}

// Update handles the messages produced by the commands this package returns.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceElapsedMsg:
		return m.fetcher.handleDebounce(msg)
	case ItemsFetchedMsg:
		m.fetcher.Apply(msg)
		return nil
	case MutationDoneMsg:
		return m.handleMutationDone(msg)
	}
	return nil
}

func (m *Model) handleMutationDone(msg MutationDoneMsg) tea.Cmd {
	refresh := m.mutations.Complete(msg)
	if msg.Err != nil {
		if msg.Op == OpDelete {
			m.store.SetError(DeleteFailedMessage)
		} else {
			m.store.SetError(SaveFailedMessage)
		}
		return nil
	}
	if msg.Op != OpDelete {
		st := m.modal.State()
		if _, editing := st.Editing(); editing && st.Session() == msg.Tag {
			_ = m.modal.SaveSucceeded()
			m.editor = EditorForm{}
		}
	}
	return refresh
}
