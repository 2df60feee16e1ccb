package transaction

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

// wireDateLayout matches what browsers send for a calendar date at UTC midnight.
const wireDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Params is the body of both create and update requests.
type Params struct {
	CategoryID  string
	Type        Type
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// Normalize trims the description and reduces Date to its calendar day in UTC.
func (p Params) Normalize() Params {
	p.Description = strings.TrimSpace(p.Description)

	if !p.Date.IsZero() {
		p.Date = time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
	}

	return p
}

func (p Params) Validate() error {
	if !p.Amount.IsPositive() {
		return errs.NewValidationError("amount", "Amount must be a positive number.")
	}

	if p.CategoryID == "" {
		return errs.NewValidationError("category_id", "Please select a category.")
	}

	if p.Date.IsZero() {
		return errs.NewValidationError("date", "Please select a date.")
	}

	if !p.Type.Valid() {
		return errs.NewValidationError("type", "Type must be inflow or outflow.")
	}

	return nil
}

// MarshalJSON sends the amount as a JSON number, which the backend requires.
func (p Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CategoryID  string      `json:"category_id"`
		Type        Type        `json:"type"`
		Amount      json.Number `json:"amount"`
		Description string      `json:"description"`
		Date        string      `json:"date"`
	}{
		CategoryID:  p.CategoryID,
		Type:        p.Type,
		Amount:      json.Number(p.Amount.String()),
		Description: p.Description,
		Date:        p.Date.UTC().Format(wireDateLayout),
	})
}

// ParamsFrom prefills an edit form from an existing transaction.
func ParamsFrom(tx Transaction) Params {
	return Params{
		CategoryID:  tx.CategoryID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date,
	}
}

// DefaultCategoryID picks the preselected category for a new transaction:
// "Other" for inflows when it exists, otherwise the first category.
func DefaultCategoryID(t Type, cats []category.Category) string {
	if t == TypeInflow {
		if other, ok := category.FindByName(cats, "other"); ok {
			return other.ID
		}
	}

	if len(cats) > 0 {
		return cats[0].ID
	}

	return ""
}
