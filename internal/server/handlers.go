package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"stocktrack/internal/model"
)

func (s *Server) serverError(w http.ResponseWriter, err error) {
	_ = s.errorLog.Output(2, fmt.Sprintf("%s\n%s", err.Error(), debug.Stack()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) clientError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(":id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeItem(r *http.Request) (model.Item, error) {
	var it model.Item
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&it); err != nil {
		return model.Item{}, fmt.Errorf("invalid request body: %w", err)
	}
	it.Name = strings.TrimSpace(it.Name)
	it.SKU = strings.TrimSpace(it.SKU)
	return it, nil
}

func validationMessage(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) && (ve.Field == "name" || ve.Field == "sku") {
		return "Name and SKU are required fields"
	}
	return err.Error()
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.List(r.Context(), SearchParams{})
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) searchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := SearchParams{
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
	}
	if raw := strings.TrimSpace(q.Get("min_qty")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.clientError(w, http.StatusBadRequest, "min_qty must be an integer")
			return
		}
		params.MinQuantity = &n
	}
	items, err := s.repo.List(r.Context(), params)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.clientError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	it, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.clientError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	it, err := decodeItem(r)
	if err != nil {
		s.clientError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := it.Validate(); err != nil {
		s.clientError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	it.ID = nil
	created, err := s.repo.Create(r.Context(), it)
	if errors.Is(err, ErrDuplicateSKU) {
		s.clientError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.clientError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	it, err := decodeItem(r)
	if err != nil {
		s.clientError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := it.Validate(); err != nil {
		s.clientError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	err = s.repo.Update(r.Context(), id, it)
	switch {
	case errors.Is(err, ErrNotFound):
		s.clientError(w, http.StatusNotFound, "Item not found or no changes made")
	case errors.Is(err, ErrDuplicateSKU):
		s.clientError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.serverError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.clientError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	err := s.repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.clientError(w, http.StatusNotFound, "Item not found")
	case err != nil:
		s.serverError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
