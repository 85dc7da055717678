package dashboard

import "stocktrack/internal/model"

// ItemListView is what the list renderer reads.
type ItemListView struct {
	Items   []model.Item
	Loading bool
	Err     string
}

// ItemStore owns the ItemListView. Only the fetch-response handler replaces the list.
type ItemStore struct {
	view ItemListView
}

func NewItemStore() *ItemStore {
	return &ItemStore{view: ItemListView{Items: []model.Item{}}}
}

func (s *ItemStore) View() ItemListView { return s.view }

func (s *ItemStore) BeginFetch() {
	s.view.Loading = true
}

// Replace swaps in a freshly fetched list wholesale and clears any banner.
func (s *ItemStore) Replace(items []model.Item) {
	next := make([]model.Item, len(items))
	copy(next, items)
	s.view = ItemListView{Items: next}
}

// Fail records a fetch failure. The previous list stays visible.
func (s *ItemStore) Fail(msg string) {
	s.view.Loading = false
	s.view.Err = msg
}

// SetError sets the banner without touching the list or loading state.
func (s *ItemStore) SetError(msg string) {
	s.view.Err = msg
}

func (s *ItemStore) Find(id int64) (model.Item, bool) {
	for _, it := range s.view.Items {
		if it.ID != nil && *it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}
