package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var (
	inflowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	outflowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// FormatAmount renders d as dollars with thousands separators, e.g. "$1,042.50".
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}

// FormatSigned prefixes the amount with the direction of the transaction.
func FormatSigned(t transaction.Type, d decimal.Decimal) string {
	if t == transaction.TypeInflow {
		return "+" + FormatAmount(d)
	}

	return "-" + FormatAmount(d)
}

// FormatDate renders the calendar day of t, e.g. "Mar 1, 2024".
func FormatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006")
}
