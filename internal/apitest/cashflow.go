package apitest

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

const (
	defaultMonths = 12
	maxMonths     = 24
	minYear       = 2000
	maxYear       = 2100
)

type monthlyPoint struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Inflow  json.Number `json:"inflow"`
	Outflow json.Number `json:"outflow"`
}

type categoryPoint struct {
	CategoryID    string      `json:"category_id"`
	CategoryName  string      `json:"category_name"`
	CategoryColor string      `json:"category_color"`
	CategoryIcon  string      `json:"category_icon"`
	Total         json.Number `json:"total"`
}

type summaryResponse struct {
	Monthly    []monthlyPoint  `json:"monthly"`
	ByCategory []categoryPoint `json:"by_category"`
}

// summary aggregates either a calendar year (?year=) or a trailing window of
// months (?months=, clamped to 1..24) that has no upper bound.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	var since, until time.Time

	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < minYear || year > maxYear {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}

		since = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		until = since.AddDate(1, 0, 0)
	} else {
		months := min(max(queryInt(r, "months", defaultMonths), 1), maxMonths)
		since = s.now().AddDate(0, -months, 0)
	}

	uid := userID(r)

	type monthKey struct{ year, month int }

	type monthTotals struct{ in, out decimal.Decimal }

	monthly := make(map[monthKey]*monthTotals)
	byCat := make(map[string]*transaction.Transaction)

	s.mu.Lock()
	for _, tx := range s.txs {
		if tx.userID != uid || tx.Date.Before(since) || (!until.IsZero() && !tx.Date.Before(until)) {
			continue
		}

		k := monthKey{tx.Date.Year(), int(tx.Date.Month())}
		if monthly[k] == nil {
			monthly[k] = &monthTotals{}
		}

		if tx.Type == transaction.TypeInflow {
			monthly[k].in = monthly[k].in.Add(tx.Amount)
			continue
		}

		monthly[k].out = monthly[k].out.Add(tx.Amount)

		if agg, ok := byCat[tx.CategoryID]; ok {
			agg.Amount = agg.Amount.Add(tx.Amount)
		} else {
			agg := tx.Transaction
			byCat[tx.CategoryID] = &agg
		}
	}
	s.mu.Unlock()

	resp := summaryResponse{
		Monthly:    make([]monthlyPoint, 0, len(monthly)),
		ByCategory: make([]categoryPoint, 0, len(byCat)),
	}

	for k, t := range monthly {
		resp.Monthly = append(resp.Monthly, monthlyPoint{
			Year:    k.year,
			Month:   k.month,
			Inflow:  number(t.in),
			Outflow: number(t.out),
		})
	}

	slices.SortFunc(resp.Monthly, func(a, b monthlyPoint) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})

	totals := make([]*transaction.Transaction, 0, len(byCat))
	for _, agg := range byCat {
		totals = append(totals, agg)
	}

	slices.SortFunc(totals, func(a, b *transaction.Transaction) int {
		return cmp.Or(b.Amount.Cmp(a.Amount), cmp.Compare(a.CategoryName, b.CategoryName))
	})

	for _, agg := range totals {
		resp.ByCategory = append(resp.ByCategory, categoryPoint{
			CategoryID:    agg.CategoryID,
			CategoryName:  agg.CategoryName,
			CategoryColor: agg.CategoryColor,
			CategoryIcon:  agg.CategoryIcon,
			Total:         number(agg.Amount),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
