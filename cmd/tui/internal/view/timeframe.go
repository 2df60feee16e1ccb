package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensify/internal/cashflow"
)

// PeriodChangedMsg is emitted when the user moved to another period.
type PeriodChangedMsg struct {
	Period cashflow.Period
}

// PeriodNav steps the charts between calendar years and the trailing window.
type PeriodNav struct {
	period cashflow.Period
	now    func() time.Time
}

func NewPeriodNav(now func() time.Time) PeriodNav {
	return PeriodNav{now: now}
}

func (m PeriodNav) Period() cashflow.Period { return m.period }

func (m PeriodNav) Update(msg tea.Msg) (PeriodNav, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	next := m.period

	switch keyMsg.String() {
	case "left", "h":
		next = m.period.Prev(m.now())
	case "right", "l":
		next = m.period.Next(m.now())
	case "t":
		next = cashflow.Period{}
	}

	if next == m.period {
		return m, nil
	}

	m.period = next

	return m, func() tea.Msg {
		return PeriodChangedMsg{Period: next}
	}
}

func (m PeriodNav) View() string {
	prev := "‹"

	next := faintStyle.Render("›")
	if m.period.CanGoNext() {
		next = "›"
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		fmt.Sprintf("%s  %s  %s", prev, titleStyle.Render(m.period.Label()), next),
		faintStyle.Render(m.period.SubLabel(m.now())),
	)
}
