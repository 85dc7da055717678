package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one inventory record.
//
// ID is nil while the item only exists in the editor; the server assigns it on create.
type Item struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

func (it Item) HasID() bool { return it.ID != nil }

// IDValue returns the id, or 0 when the item has not been persisted.
func (it Item) IDValue() int64 {
	if it.ID == nil {
		return 0
	}
	return *it.ID
}

func (it Item) IDString() string {
	if it.ID == nil {
		return ""
	}
	return strconv.FormatInt(*it.ID, 10)
}

// WithID returns a copy of it with the given id set.
func (it Item) WithID(id int64) Item {
	it.ID = &id
	return it
}

// Clone returns a copy that does not share the id pointer.
func (it Item) Clone() Item {
	if it.ID != nil {
		id := *it.ID
		it.ID = &id
	}
	return it
}

func IDPtr(id int64) *int64 { return &id }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate reports the first field that would be rejected by the record store.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(it.SKU) == "" {
		return &ValidationError{Field: "sku", Reason: "required"}
	}
	if it.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must be >= 0"}
	}
	return nil
}
