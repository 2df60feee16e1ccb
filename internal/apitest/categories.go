package apitest

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/expensify/internal/category"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// listCategories returns the defaults and the user's own categories by name,
// with "Other" last.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	s.mu.Lock()
	cats := make([]category.Category, 0, len(s.categories))

	for _, c := range s.categories {
		if c.IsDefault || (c.UserID != nil && *c.UserID == uid) {
			cats = append(cats, c)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Name == "Other" {
			return false
		}

		if cats[j].Name == "Other" {
			return true
		}

		return cats[i].Name < cats[j].Name
	})

	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	uid := userID(r)

	s.mu.Lock()
	cat := category.Category{
		ID:        uuid.NewString(),
		UserID:    &uid,
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		CreatedAt: s.now(),
	}
	s.categories = append(s.categories, cat)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1

	for i, c := range s.categories {
		if c.ID == id && !c.IsDefault && c.UserID != nil && *c.UserID == uid {
			idx = i
			break
		}
	}

	if idx < 0 {
		writeError(w, http.StatusNotFound, "category not found or not owned by you")
		return
	}

	for _, tx := range s.txs {
		if tx.userID == uid && tx.CategoryID == id {
			writeError(w, http.StatusConflict, "category has existing transactions and cannot be deleted")
			return
		}
	}

	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)

	w.WriteHeader(http.StatusNoContent)
}
