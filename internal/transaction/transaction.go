package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type string

const (
	TypeInflow  Type = "inflow"
	TypeOutflow Type = "outflow"
)

func (t Type) Valid() bool {
	return t == TypeInflow || t == TypeOutflow
}

// Transaction is a single income or expense entry. The category fields are
// denormalized by the server for display.
type Transaction struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	CategoryIcon  string          `json:"category_icon"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Page is one server-computed window over the user's transactions.
type Page struct {
	Items      []Transaction `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// EmptyPage is the fallback for a list response without payload.
func EmptyPage(page, pageSize int) *Page {
	return &Page{
		Items:    []Transaction{},
		Page:     page,
		PageSize: pageSize,
	}
}

func (p *Page) HasPrev() bool { return p.Page > 1 }
func (p *Page) HasNext() bool { return p.Page < p.TotalPages }
