package dashboard

import "fmt"

type DialogAction int

const (
	ActionOK DialogAction = iota
	ActionCancel
	ActionConfirm
)

// Dialog describes an alert (no OnConfirm) or a confirmation (OnConfirm set).
// It holds no state of its own.
type Dialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
}

func (d Dialog) IsConfirmation() bool { return d.OnConfirm != nil }

// Actions lists the buttons in display order.
func (d Dialog) Actions() []DialogAction {
	if d.IsConfirmation() {
		return []DialogAction{ActionCancel, ActionConfirm}
	}
	return []DialogAction{ActionOK}
}

func (d Dialog) Label(a DialogAction) string {
	switch a {
	case ActionConfirm:
		if d.ConfirmLabel != "" {
			return d.ConfirmLabel
		}
		return "Confirm"
	case ActionCancel:
		if d.CancelLabel != "" {
			return d.CancelLabel
		}
		return "Cancel"
	default:
		return "OK"
	}
}

// Invoke runs action. Confirm calls OnConfirm and then dismiss; every other
// valid action only calls dismiss. dismiss runs exactly once per valid action.
func (d Dialog) Invoke(a DialogAction, dismiss func()) error {
	valid := false
	for _, x := range d.Actions() {
		if x == a {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("dialog %q has no action %d", d.Title, int(a))
	}
	if a == ActionConfirm {
		d.OnConfirm()
	}
	if dismiss != nil {
		dismiss()
	}
	return nil
}

const (
	deleteDialogTitle   = "Delete Item"
	deleteDialogMessage = "Are you sure you want to permanently delete this item?"
)

func deleteDialog(onConfirm func()) Dialog {
	return Dialog{
		Title:        deleteDialogTitle,
		Message:      deleteDialogMessage,
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
		OnConfirm:    onConfirm,
	}
}
