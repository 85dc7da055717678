package dashboard

import (
	"errors"
	"fmt"

	"stocktrack/internal/model"
)

type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalEditing
	ModalConfirmingDelete
)

func (k ModalKind) String() string {
	switch k {
	case ModalClosed:
		return "closed"
	case ModalEditing:
		return "editing"
	case ModalConfirmingDelete:
		return "confirming-delete"
	default:
		return fmt.Sprintf("modal(%d)", int(k))
	}
}

var ErrInvalidTransition = errors.New("invalid modal transition")

// ModalState is one of Closed, Editing(item or nil) or ConfirmingDelete(id).
type ModalState struct {
	kind     ModalKind
	editing  *model.Item
	deleteID int64
	// session increments on every open so late completions can be matched
	// against the modal that started them.
	session uint64
}

func (s ModalState) Kind() ModalKind { return s.kind }

func (s ModalState) Session() uint64 { return s.session }

// Editing returns the item being edited (nil when creating) and whether the editor is open.
func (s ModalState) Editing() (*model.Item, bool) {
	if s.kind != ModalEditing {
		return nil, false
	}
	return s.editing, true
}

func (s ModalState) ConfirmingDelete() (int64, bool) {
	if s.kind != ModalConfirmingDelete {
		return 0, false
	}
	return s.deleteID, true
}

type ModalController struct {
	state ModalState
}

func (c *ModalController) State() ModalState { return c.state }

func (c *ModalController) OpenForCreate() error {
	if err := c.requireKind("openForCreate", ModalClosed); err != nil {
		return err
	}
	c.open(ModalState{kind: ModalEditing})
	return nil
}

func (c *ModalController) OpenForEdit(item model.Item) error {
	if err := c.requireKind("openForEdit", ModalClosed); err != nil {
		return err
	}
	it := item.Clone()
	c.open(ModalState{kind: ModalEditing, editing: &it})
	return nil
}

func (c *ModalController) OpenConfirm(id int64) error {
	if err := c.requireKind("openConfirm", ModalClosed); err != nil {
		return err
	}
	c.open(ModalState{kind: ModalConfirmingDelete, deleteID: id})
	return nil
}

// Cancel closes the editor or the confirm dialog without side effects.
func (c *ModalController) Cancel() error {
	if c.state.kind == ModalClosed {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, c.state.kind)
	}
	c.close()
	return nil
}

// SaveSucceeded closes the editor. Call it only once the save has succeeded;
// a failed save leaves the editor open for a retry.
func (c *ModalController) SaveSucceeded() error {
	if err := c.requireKind("save", ModalEditing); err != nil {
		return err
	}
	c.close()
	return nil
}

// Confirm closes the confirm dialog immediately and returns the id to delete.
func (c *ModalController) Confirm() (int64, error) {
	if err := c.requireKind("confirm", ModalConfirmingDelete); err != nil {
		return 0, err
	}
	id := c.state.deleteID
	c.close()
	return id, nil
}

func (c *ModalController) requireKind(event string, want ModalKind) error {
	if c.state.kind != want {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, c.state.kind)
	}
	return nil
}

func (c *ModalController) open(next ModalState) {
	next.session = c.state.session + 1
	c.state = next
}

func (c *ModalController) close() {
	c.state = ModalState{kind: ModalClosed, session: c.state.session}
}
