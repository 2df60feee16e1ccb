package cli

import (
	"strconv"

	"github.com/MrJamesThe3rd/expensify/internal/auth"
	"github.com/MrJamesThe3rd/expensify/internal/cashflow"
	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

type userRow struct {
	ID    string `json:"id" yaml:"id" csv:"id"`
	Name  string `json:"name" yaml:"name" csv:"name"`
	Email string `json:"email" yaml:"email" csv:"email"`
}

func (userRow) header() []string  { return []string{"ID", "Name", "Email"} }
func (r userRow) cells() []string { return []string{r.ID, r.Name, r.Email} }

func toUserRow(u *auth.User) userRow {
	return userRow{ID: u.ID, Name: u.Name, Email: u.Email}
}

type categoryRow struct {
	ID      string `json:"id" yaml:"id" csv:"id"`
	Name    string `json:"name" yaml:"name" csv:"name"`
	Icon    string `json:"icon" yaml:"icon" csv:"icon"`
	Color   string `json:"color" yaml:"color" csv:"color"`
	Default bool   `json:"is_default" yaml:"is_default" csv:"is_default"`
}

func (categoryRow) header() []string { return []string{"ID", "Name", "Icon", "Color", "Default"} }

func (r categoryRow) cells() []string {
	return []string{r.ID, r.Name, r.Icon, r.Color, strconv.FormatBool(r.Default)}
}

func toCategoryRows(cats []category.Category) []categoryRow {
	rows := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, categoryRow{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color, Default: c.IsDefault})
	}

	return rows
}

type transactionRow struct {
	ID          string `json:"id" yaml:"id" csv:"id"`
	Date        string `json:"date" yaml:"date" csv:"date"`
	Type        string `json:"type" yaml:"type" csv:"type"`
	Category    string `json:"category" yaml:"category" csv:"category"`
	Description string `json:"description" yaml:"description" csv:"description"`
	Amount      string `json:"amount" yaml:"amount" csv:"amount"`
}

func (transactionRow) header() []string {
	return []string{"ID", "Date", "Type", "Category", "Description", "Amount"}
}

func (r transactionRow) cells() []string {
	return []string{r.ID, r.Date, r.Type, r.Category, r.Description, r.Amount}
}

func toTransactionRow(tx transaction.Transaction) transactionRow {
	return transactionRow{
		ID:          tx.ID,
		Date:        tx.Date.UTC().Format(dateLayout),
		Type:        string(tx.Type),
		Category:    tx.CategoryName,
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
	}
}

type monthRow struct {
	Month   string `json:"month" yaml:"month" csv:"month"`
	Inflow  string `json:"inflow" yaml:"inflow" csv:"inflow"`
	Outflow string `json:"outflow" yaml:"outflow" csv:"outflow"`
	Net     string `json:"net" yaml:"net" csv:"net"`
}

func (monthRow) header() []string  { return []string{"Month", "Inflow", "Outflow", "Net"} }
func (r monthRow) cells() []string { return []string{r.Month, r.Inflow, r.Outflow, r.Net} }

type categoryTotalRow struct {
	Category string `json:"category" yaml:"category" csv:"category"`
	Total    string `json:"total" yaml:"total" csv:"total"`
}

func (categoryTotalRow) header() []string  { return []string{"Category", "Spent"} }
func (r categoryTotalRow) cells() []string { return []string{r.Category, r.Total} }

func toMonthRows(s *cashflow.Summary) []monthRow {
	rows := make([]monthRow, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		rows = append(rows, monthRow{
			Month:   cashflow.MonthLabel(m.Year, m.Month),
			Inflow:  m.Inflow.StringFixed(2),
			Outflow: m.Outflow.StringFixed(2),
			Net:     m.Inflow.Sub(m.Outflow).StringFixed(2),
		})
	}

	return rows
}

func toCategoryTotalRows(s *cashflow.Summary) []categoryTotalRow {
	rows := make([]categoryTotalRow, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		rows = append(rows, categoryTotalRow{
			Category: c.CategoryIcon + " " + c.CategoryName,
			Total:    c.Total.StringFixed(2),
		})
	}

	return rows
}
