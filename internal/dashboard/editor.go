package dashboard

import (
	"strconv"
	"strings"

	"stocktrack/internal/model"
)

// EditorForm is the text the add/edit modal shows in its fields.
type EditorForm struct {
	ID          *int64
	Name        string
	SKU         string
	Quantity    string
	Description string
}

// NewEditorForm pre-fills every field from item, or returns blank defaults when item is nil.
func NewEditorForm(item *model.Item) EditorForm {
	if item == nil {
		return EditorForm{Quantity: "0"}
	}
	it := item.Clone()
	return EditorForm{
		ID:          it.ID,
		Name:        it.Name,
		SKU:         it.SKU,
		Quantity:    strconv.Itoa(it.Quantity),
		Description: it.Description,
	}
}

func (f EditorForm) IsNew() bool { return f.ID == nil }

func (f EditorForm) Title() string {
	if f.IsNew() {
		return "Add New Item"
	}
	return "Edit Item"
}

// Item converts the form back into an Item, validating it on the way.
func (f EditorForm) Item() (model.Item, error) {
	qtyText := strings.TrimSpace(f.Quantity)
	qty := 0
	if qtyText != "" {
		n, err := strconv.Atoi(qtyText)
		if err != nil {
			return model.Item{}, &model.ValidationError{Field: "quantity", Reason: "must be a whole number"}
		}
		qty = n
	}
	it := model.Item{
		Name:        strings.TrimSpace(f.Name),
		SKU:         strings.TrimSpace(f.SKU),
		Quantity:    qty,
		Description: strings.TrimSpace(f.Description),
	}
	if f.ID != nil {
		it = it.WithID(*f.ID)
	}
	if err := it.Validate(); err != nil {
		return model.Item{}, err
	}
	return it, nil
}
