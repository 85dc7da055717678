package tui

import (
	"strconv"
	"strings"

	"stocktrack/internal/dashboard"
	"stocktrack/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusList focusArea = iota
	focusSearch
)

// appModel renders a dashboard.Model and translates keys into its operations.
type appModel struct {
	dash *dashboard.Model

	width  int
	height int

	focus  focusArea
	search textinput.Model
	list   list.Model

	editor       *editorModal
	confirmFocus confirmModalFocus

	// flash is a one-line hint shown in the footer until the next key.
	flash string
}

func newAppModel(dash *dashboard.Model) appModel {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "name or SKU"
	search.CharLimit = 120

	return appModel{
		dash:   dash,
		search: search,
		list:   newItemList(),
	}
}

func (m appModel) Init() tea.Cmd {
	return m.dash.Init()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), m.listHeight())
		return m, nil
	case tea.KeyMsg:
		m.flash = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.dash.Modal().Kind() {
		case dashboard.ModalEditing:
			cmd = m.updateEditor(msg)
		case dashboard.ModalConfirmingDelete:
			cmd = m.updateConfirm(msg)
		default:
			var quit bool
			cmd, quit = m.updateMain(msg)
			if quit {
				return m, tea.Quit
			}
		}
		m.sync()
		return m, cmd
	}

	cmd := m.dash.Update(msg)
	m.sync()
	return m, cmd
}

// sync pulls dashboard state into the widgets after every transition.
func (m *appModel) sync() {
	v := m.dash.View()
	selected, hadSelection := m.selectedItem()
	m.list.SetItems(toRows(v.Items))
	if hadSelection && selected.HasID() {
		for i, it := range v.Items {
			if it.IDValue() == selected.IDValue() {
				m.list.Select(i)
				break
			}
		}
	}

	st := m.dash.Modal()
	if _, editing := st.Editing(); editing {
		if m.editor == nil || m.editor.session != st.Session() {
			e := newEditorModal(st.Session(), m.dash.Editor())
			m.editor = &e
		}
	} else {
		m.editor = nil
	}
	if st.Kind() != dashboard.ModalConfirmingDelete {
		m.confirmFocus = confirmFocusConfirm
	}
}

func (m appModel) selectedItem() (model.Item, bool) {
	row, ok := m.list.SelectedItem().(itemRow)
	if !ok {
		return model.Item{}, false
	}
	return row.item, true
}

func (m *appModel) updateMain(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.focus == focusSearch {
		switch msg.String() {
		case "esc", "enter", "tab":
			m.focus = focusList
			m.search.Blur()
			return nil, false
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			return tea.Batch(cmd, m.dash.SetQuery(after)), false
		}
		return cmd, false
	}

	switch msg.String() {
	case "q":
		return nil, true
	case "/":
		m.focus = focusSearch
		return m.search.Focus(), false
	case "r":
		return m.dash.Refresh(), false
	case "a":
		m.report(m.dash.OpenCreate())
		return nil, false
	case "e", "enter":
		it, ok := m.selectedItem()
		if !ok {
			m.flash = "No item selected"
			return nil, false
		}
		m.report(m.dash.OpenEdit(it))
		return nil, false
	case "d", "delete":
		it, ok := m.selectedItem()
		if !ok || !it.HasID() {
			m.flash = "No item selected"
			return nil, false
		}
		m.report(m.dash.OpenDelete(it.IDValue()))
		return nil, false
	case "ctrl+l":
		m.search.SetValue("")
		return m.dash.SetQuery(""), false
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd, false
}

func (m *appModel) updateEditor(msg tea.KeyMsg) tea.Cmd {
	if m.editor == nil {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.report(m.dash.CancelModal())
		return nil
	case "tab", "down":
		m.editor.move(1)
		return nil
	case "shift+tab", "up":
		m.editor.move(-1)
		return nil
	case "ctrl+s":
		return m.submitEditor()
	case "enter":
		if m.editor.focus == fieldDescription {
			return m.submitEditor()
		}
		m.editor.move(1)
		return nil
	}
	return m.editor.updateInput(msg)
}

func (m *appModel) submitEditor() tea.Cmd {
	cmd, err := m.dash.SubmitEditor(m.editor.value())
	if err != nil {
		m.editor.err = err.Error()
		return nil
	}
	return cmd
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	var action dashboard.DialogAction
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return nil
	case "enter":
		action = m.confirmFocus.action()
	case "y":
		action = dashboard.ActionConfirm
	case "n", "esc", "q":
		action = dashboard.ActionCancel
	default:
		return nil
	}
	cmd, err := m.dash.ResolveDialog(action)
	m.report(err)
	return cmd
}

func (m *appModel) report(err error) {
	if err != nil {
		m.flash = err.Error()
	}
}

func (m appModel) listWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// listHeight leaves room for the header, search, banner, detail pane and footer.
func (m appModel) listHeight() int {
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) View() string {
	w := m.listWidth()
	v := m.dash.View()

	var b strings.Builder
	b.WriteString(styleTitle().Render("Inventory"))
	b.WriteString("\n\n")
	b.WriteString(renderInputLine(w, m.search.View()))
	b.WriteString("\n")

	switch {
	case v.Err != "":
		b.WriteString(styleError().Render(v.Err))
	case v.Loading:
		b.WriteString(styleMuted().Render("Loading inventory..."))
	default:
		b.WriteString(styleMuted().Render(itemCount(len(v.Items))))
	}
	b.WriteString("\n")

	if len(v.Items) == 0 && !v.Loading {
		b.WriteString(normalizePane(styleMuted().Render("No inventory items found."), w, m.listHeight()))
	} else {
		b.WriteString(normalizePane(m.list.View(), w, m.listHeight()))
	}
	b.WriteString("\n")
	b.WriteString(m.detailView(w))
	b.WriteString("\n")
	b.WriteString(m.footerView(w))

	base := b.String()
	switch m.dash.Modal().Kind() {
	case dashboard.ModalEditing:
		if m.editor != nil {
			return m.overlay(m.editor.view(w, v.Err, m.dash.Saving()))
		}
	case dashboard.ModalConfirmingDelete:
		if d, ok := m.dash.Dialog(); ok {
			return m.overlay(renderConfirmModal(w, d, m.confirmFocus))
		}
	}
	return base
}

func (m appModel) detailView(w int) string {
	it, ok := m.selectedItem()
	if !ok || strings.TrimSpace(it.Description) == "" {
		return normalizePane("", w, 4)
	}
	return normalizePane(renderMarkdown(it.Description, w-2), w, 4)
}

func (m appModel) footerView(w int) string {
	if m.flash != "" {
		return fitWidth(styleError().Render(m.flash), w)
	}
	help := "/: search   a: add   e: edit   d: delete   r: refresh   q: quit"
	if m.focus == focusSearch {
		help = "type to search   enter/esc: back to list   ctrl+c: quit"
	}
	return fitWidth(styleMuted().Render(help), w)
}

func (m appModel) overlay(modal string) string {
	w, h := m.width, m.height
	if w <= 0 {
		w = lipgloss.Width(modal)
	}
	if h <= 0 {
		h = lipgloss.Height(modal)
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modal)
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}
