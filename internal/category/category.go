package category

import (
	"strings"
	"time"
)

const (
	DefaultIcon  = "☕"
	DefaultColor = "#0984E3"
)

// Category groups transactions. Shared defaults have no UserID.
type Category struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Custom returns the user's own categories, the only ones offered for deletion.
func Custom(cats []Category) []Category {
	out := make([]Category, 0, len(cats))

	for _, c := range cats {
		if !c.IsDefault {
			out = append(out, c)
		}
	}

	return out
}

// Find returns the category with the given id.
func Find(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}

	return Category{}, false
}

// FindByName matches case-insensitively.
func FindByName(cats []Category, name string) (Category, bool) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return Category{}, false
}
