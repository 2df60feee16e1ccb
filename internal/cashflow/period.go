package cashflow

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultMonths is the size of the trailing window shown when no year is picked.
const DefaultMonths = 12

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Period selects the transactions a Summary covers: either one calendar year
// or a window of trailing months ending now. The zero value is the trailing
// DefaultMonths window.
type Period struct {
	Year   int
	Months int
}

func YearPeriod(year int) Period {
	return Period{Year: year}
}

func TrailingPeriod(months int) Period {
	return Period{Months: months}
}

func (p Period) IsTrailing() bool {
	return p.Year == 0
}

func (p Period) months() int {
	if p.Months <= 0 {
		return DefaultMonths
	}

	return p.Months
}

// KeySegment identifies the period inside a cache key.
func (p Period) KeySegment() string {
	if p.IsTrailing() {
		return fmt.Sprintf("months-%d", p.months())
	}

	return strconv.Itoa(p.Year)
}

// Query returns the summary request parameters. Exactly one of year and
// months is set.
func (p Period) Query() url.Values {
	if p.IsTrailing() {
		return url.Values{"months": {strconv.Itoa(p.months())}}
	}

	return url.Values{"year": {strconv.Itoa(p.Year)}}
}

// Range returns [since, until) for a year and [now - months, now] for a
// trailing window.
func (p Period) Range(now time.Time) (since, until time.Time) {
	if p.IsTrailing() {
		return now.AddDate(0, -p.months(), 0), now
	}

	since = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)

	return since, since.AddDate(1, 0, 0)
}

// Prev steps back one calendar year. From the trailing window it lands on
// the year before the current one.
func (p Period) Prev(now time.Time) Period {
	if p.IsTrailing() {
		return YearPeriod(now.Year() - 1)
	}

	return YearPeriod(p.Year - 1)
}

// Next steps forward one calendar year, returning to the trailing window
// once the current year would be reached. The trailing window has no next.
func (p Period) Next(now time.Time) Period {
	if p.IsTrailing() {
		return p
	}

	if p.Year+1 >= now.Year() {
		return Period{}
	}

	return YearPeriod(p.Year + 1)
}

func (p Period) CanGoNext() bool {
	return !p.IsTrailing()
}

// Label is the headline of the period navigator.
func (p Period) Label() string {
	if p.IsTrailing() {
		return fmt.Sprintf("Last %d Months", p.months())
	}

	return strconv.Itoa(p.Year)
}

// SubLabel spells out the months the period covers. A trailing window
// names its months calendar-wise, ending with the current one.
func (p Period) SubLabel(now time.Time) string {
	if !p.IsTrailing() {
		return fmt.Sprintf("Jan – Dec %d", p.Year)
	}

	start := time.Date(now.Year(), now.Month()-time.Month(p.months()-1), 1, 0, 0, 0, 0, now.Location())

	return MonthLabel(start.Year(), int(start.Month())) + " – " + MonthLabel(now.Year(), int(now.Month()))
}

// MonthLabel formats a chart axis label such as "Feb '25".
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d/%02d", year, month)
	}

	return fmt.Sprintf("%s '%02d", monthNames[month-1], year%100)
}
