package view

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

// TxFormSubmittedMsg carries a validated transaction. ID is empty for a new one.
type TxFormSubmittedMsg struct {
	ID     string
	Params transaction.Params
}

type TxFormCancelledMsg struct{}

// txFields are the huh bindings. They live behind a pointer because the
// model is copied on every update.
type txFields struct {
	typ         transaction.Type
	amount      string
	categoryID  string
	description string
	date        string
}

// TxFormModel adds or edits one transaction.
type TxFormModel struct {
	id     string
	fields *txFields
	form   *huh.Form
}

// NewTxForm prefills from tx when editing, otherwise starts a new
// transaction of type typ dated today.
func NewTxForm(cats []category.Category, tx *transaction.Transaction, typ transaction.Type, now time.Time) TxFormModel {
	f := &txFields{
		typ:        typ,
		categoryID: transaction.DefaultCategoryID(typ, cats),
		date:       Today(now),
	}

	var id string

	if tx != nil {
		id = tx.ID
		p := transaction.ParamsFrom(*tx)
		f.typ = p.Type
		f.amount = p.Amount.StringFixed(2)
		f.categoryID = p.CategoryID
		f.description = p.Description
		f.date = InputDate(p.Date)
	}

	options := make([]huh.Option[string], 0, len(cats))
	for _, c := range cats {
		options = append(options, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeOutflow),
					huh.NewOption("Income", transaction.TypeInflow),
				).
				Value(&f.typ),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&f.categoryID).
				Validate(func(s string) error {
					if s == "" {
						return errs.NewValidationError("category_id", "Please select a category.")
					}

					return nil
				}),

			huh.NewInput().
				Title("Description").
				Placeholder("Optional").
				Value(&f.description),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errs.NewValidationError("date", "Please select a date.")
					}

					_, err := ParseDate(s)

					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	return TxFormModel{id: id, fields: f, form: form}
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return errs.NewValidationError("amount", "Amount must be a positive number.")
	}

	return nil
}

func (m TxFormModel) Editing() bool { return m.id != "" }

func (m TxFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m TxFormModel) Update(msg tea.Msg) (TxFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, func() tea.Msg { return TxFormCancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params, err := m.params()
	if err != nil {
		return m, nil
	}

	id := m.id

	return m, func() tea.Msg {
		return TxFormSubmittedMsg{ID: id, Params: params}
	}
}

func (m TxFormModel) params() (transaction.Params, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(m.fields.amount))
	if err != nil {
		return transaction.Params{}, err
	}

	date, err := ParseDate(m.fields.date)
	if err != nil {
		return transaction.Params{}, err
	}

	p := transaction.Params{
		CategoryID:  m.fields.categoryID,
		Type:        m.fields.typ,
		Amount:      amount,
		Description: m.fields.description,
		Date:        date,
	}.Normalize()

	return p, p.Validate()
}

func (m TxFormModel) View() string {
	title := "Add Transaction"
	if m.Editing() {
		title = "Edit Transaction"
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(titleStyle.Render(title) + "\n\n" + m.form.View())
}
