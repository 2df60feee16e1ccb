package cashflow

import (
	"github.com/shopspring/decimal"
)

// Summary is the server-side aggregation of a user's transactions over a Period.
type Summary struct {
	Monthly    []MonthlyPoint  `json:"monthly"`
	ByCategory []CategoryPoint `json:"by_category"`
}

// MonthlyPoint holds the inflow and outflow totals of one calendar month.
type MonthlyPoint struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
}

// CategoryPoint holds the outflow total of one category, with its display metadata.
type CategoryPoint struct {
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	CategoryIcon  string          `json:"category_icon"`
	Total         decimal.Decimal `json:"total"`
}

// EmptySummary is the fallback for a summary response without payload.
func EmptySummary() *Summary {
	return &Summary{
		Monthly:    []MonthlyPoint{},
		ByCategory: []CategoryPoint{},
	}
}

func (s *Summary) Empty() bool {
	return len(s.Monthly) == 0 && len(s.ByCategory) == 0
}

// Totals sums inflow and outflow over every month of the summary.
func (s *Summary) Totals() (inflow, outflow decimal.Decimal) {
	for _, m := range s.Monthly {
		inflow = inflow.Add(m.Inflow)
		outflow = outflow.Add(m.Outflow)
	}

	return inflow, outflow
}

// Net is total inflow minus total outflow.
func (s *Summary) Net() decimal.Decimal {
	in, out := s.Totals()
	return in.Sub(out)
}
