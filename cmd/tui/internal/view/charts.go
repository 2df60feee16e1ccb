package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/cashflow"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

const maxBarWidth = 40

// ChartsModel shows the cashflow summary of one period.
type ChartsModel struct {
	CommonModel
	deps Deps

	nav PeriodNav
	obs *query.Observer[*cashflow.Summary]
}

func NewChartsModel(deps Deps) ChartsModel {
	nav := NewPeriodNav(deps.Now)

	return ChartsModel{
		deps: deps,
		nav:  nav,
		obs:  query.NewObserver(deps.Hooks.Cache(), deps.Hooks.Summary(nav.Period()), notifyOn[*cashflow.Summary](deps.Notifier)),
	}
}

func (m ChartsModel) Title() string     { return "Charts" }
func (m ChartsModel) ShortHelp() string { return "←/→: change period | t: last 12 months" }

func (m ChartsModel) Init() tea.Cmd {
	m.obs.Mount(context.Background())
	return nil
}

// Close detaches the view from the cache.
func (m ChartsModel) Close() {
	m.obs.Unmount()
}

func (m ChartsModel) Update(msg tea.Msg) (ChartsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodChangedMsg:
		m.obs.SetQuery(m.deps.Hooks.Summary(msg.Period))
		return m, nil
	case RefreshMsg:
		return m, sessionExpired(m.obs.State().Err)
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.nav, cmd = m.nav.Update(msg)

	return m, cmd
}

func (m ChartsModel) View() string {
	header := m.nav.View()
	st := m.obs.State()

	var body string

	switch {
	case !st.HasData && (st.IsLoading() || st.Status == query.StatusIdle):
		body = faintStyle.Render("Loading...")
	case st.IsError() && !st.HasData:
		body = errorStyle.Render("Failed to load chart data. " + errs.UserMessage(st.Err, errs.ActionLoad))
	case st.Data.Empty():
		body = m.emptyView()
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.totalsView(st.Data),
			"",
			titleStyle.Render("Monthly cashflow"),
			monthlyView(st.Data.Monthly),
			"",
			titleStyle.Render("Spending by category"),
			categoryView(st.Data.ByCategory),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (m ChartsModel) emptyView() string {
	p := m.nav.Period()

	detail := fmt.Sprintf("No cashflow entries found in the last %d months.", cashflow.DefaultMonths)
	if !p.IsTrailing() {
		detail = fmt.Sprintf("No cashflow entries found for %d.", p.Year)
	}

	return titleStyle.Render("No data for this period") + "\n" + faintStyle.Render(detail)
}

func (m ChartsModel) totalsView(s *cashflow.Summary) string {
	in, out := s.Totals()
	net := s.Net()

	netStyle := inflowStyle
	if net.IsNegative() {
		netStyle = outflowStyle
	}

	return fmt.Sprintf("Income %s   Spending %s   Net %s",
		inflowStyle.Render(FormatAmount(in)),
		outflowStyle.Render(FormatAmount(out)),
		netStyle.Render(FormatAmount(net)),
	)
}

func bar(v, maxV decimal.Decimal, style lipgloss.Style) string {
	if maxV.IsZero() || !v.IsPositive() {
		return ""
	}

	n := int(v.Div(maxV).Mul(decimal.NewFromInt(maxBarWidth)).Ceil().IntPart())

	return style.Render(strings.Repeat("█", n))
}

func monthlyView(points []cashflow.MonthlyPoint) string {
	maxV := decimal.Zero
	for _, p := range points {
		maxV = decimal.Max(maxV, p.Inflow, p.Outflow)
	}

	var b strings.Builder

	for _, p := range points {
		label := fmt.Sprintf("%-8s", cashflow.MonthLabel(p.Year, p.Month))
		fmt.Fprintf(&b, "%s %s %s\n", label, bar(p.Inflow, maxV, inflowStyle), faintStyle.Render(FormatAmount(p.Inflow)))
		fmt.Fprintf(&b, "%s %s %s\n", strings.Repeat(" ", len(label)), bar(p.Outflow, maxV, outflowStyle), faintStyle.Render(FormatAmount(p.Outflow)))
	}

	return strings.TrimRight(b.String(), "\n")
}

var fallbackColors = []string{"#ff6b6b", "#51cf66", "#339af0", "#fcc419", "#cc5de8", "#20c997", "#ff922b", "#74c0fc"}

func categoryView(points []cashflow.CategoryPoint) string {
	if len(points) == 0 {
		return faintStyle.Render("No spending in this period.")
	}

	maxV := decimal.Zero
	for _, p := range points {
		maxV = decimal.Max(maxV, p.Total)
	}

	var b strings.Builder

	for i, p := range points {
		color := p.CategoryColor
		if color == "" {
			color = fallbackColors[i%len(fallbackColors)]
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		fmt.Fprintf(&b, "%s %-20s %s %s\n", p.CategoryIcon, p.CategoryName, bar(p.Total, maxV, style), FormatAmount(p.Total))
	}

	return strings.TrimRight(b.String(), "\n")
}
