package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"stocktrack/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// lowStockThreshold highlights quantities at or below it.
const lowStockThreshold = 5

type itemRow struct {
	item model.Item
}

func (r itemRow) FilterValue() string { return r.item.Name + " " + r.item.SKU }
func (r itemRow) Title() string       { return r.item.Name }
func (r itemRow) Description() string { return r.item.SKU }

func toRows(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, itemRow{item: it})
	}
	return out
}

// itemDelegate renders one item per line: name, SKU and quantity columns.
type itemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newItemDelegate() itemDelegate {
	return itemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	width := m.Width()
	if width < 12 {
		return
	}
	row, ok := li.(itemRow)
	if !ok {
		fmt.Fprint(w, fitWidth(fmt.Sprint(li), width))
		return
	}

	qtyW, skuW := 8, 14
	nameW := width - qtyW - skuW - 2
	if nameW < 4 {
		nameW = 4
	}
	qty := strconv.Itoa(row.item.Quantity)
	qtyCell := strings.Repeat(" ", max(0, qtyW-len(qty))) + qty
	if row.item.Quantity <= lowStockThreshold && index != m.Index() {
		qtyCell = lipgloss.NewStyle().Foreground(colorLowStockFg).Render(qtyCell)
	}
	line := fitWidth(row.item.Name, nameW) + " " + fitWidth(row.item.SKU, skuW) + " " + qtyCell
	line = fitWidth(line, width)

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(line))
}

func newItemList() list.Model {
	l := list.New(nil, newItemDelegate(), 0, 0)
	l.Title = "Inventory"
	// Header, search and footer are drawn by the app model.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// "/" opens the dashboard search instead of the list's local filter.
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")

	up := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(up, "ctrl+p")...)
	down := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(down, "ctrl+n")...)
	return l
}
