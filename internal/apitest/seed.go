package apitest

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/expensify/internal/category"
)

var defaultCategories = []category.Category{
	{Name: "Food & Dining", Icon: "🍕", Color: "#FF6B6B"},
	{Name: "Transportation", Icon: "🚗", Color: "#4ECDC4"},
	{Name: "Shopping", Icon: "🛍️", Color: "#45B7D1"},
	{Name: "Entertainment", Icon: "🎬", Color: "#96CEB4"},
	{Name: "Health & Medical", Icon: "🏥", Color: "#FFEAA7"},
	{Name: "Utilities", Icon: "⚡", Color: "#DDA0DD"},
	{Name: "Housing", Icon: "🏠", Color: "#98D8C8"},
	{Name: "Personal Care", Icon: "💆", Color: "#F7D794"},
	{Name: "Education", Icon: "📚", Color: "#A29BFE"},
	{Name: "Travel", Icon: "✈️", Color: "#FD79A8"},
	{Name: "Gifts & Donations", Icon: "🎁", Color: "#55EFC4"},
	{Name: "Interest", Icon: "🏦", Color: "#74B9FF"},
	{Name: "Dividends", Icon: "📈", Color: "#00B894"},
	{Name: "Investment Sales", Icon: "💹", Color: "#6C5CE7"},
	{Name: "Other", Icon: "📦", Color: "#B2BEC3"},
}

func seedCategories(now time.Time) []category.Category {
	out := make([]category.Category, len(defaultCategories))

	for i, c := range defaultCategories {
		c.ID = uuid.NewString()
		c.IsDefault = true
		c.CreatedAt = now
		out[i] = c
	}

	return out
}
