package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatYAML  = "yaml"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// money renders d for people, e.g. "$1,042.50". Machine formats keep the
// plain decimal string.
func money(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatCSV, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: want table, json, csv or yaml", f)
	}
}

// tabular is a row type that can also be printed as a terminal table.
type tabular interface {
	header() []string
	cells() []string
}

// render writes rows in the requested format.
func render[T tabular](w io.Writer, format string, rows []T) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(rows); err != nil {
			return err
		}

		return enc.Close()
	case formatCSV:
		return gocsv.Marshal(rows, w)
	}

	var zero T

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(zero.header()...)

	for _, r := range rows {
		t.Row(r.cells()...)
	}

	_, err := fmt.Fprintln(w, t.String())

	return err
}

// friendlyError shows a message meant for people while keeping the cause
// reachable through errors.Is and errors.As.
type friendlyError struct {
	msg string
	err error
}

func (e *friendlyError) Error() string { return e.msg }
func (e *friendlyError) Unwrap() error { return e.err }

func userError(err error, action errs.Action) error {
	return &friendlyError{msg: errs.UserMessage(err, action), err: err}
}
