package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/expensify/internal/cashflow"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

func newSummaryCommand(a *app) *cobra.Command {
	var (
		year       int
		months     int
		byCategory bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show cashflow per month, or spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("year") && cmd.Flags().Changed("months") {
				return fmt.Errorf("--year and --months are mutually exclusive")
			}

			p := cashflow.TrailingPeriod(months)
			if year != 0 {
				p = cashflow.YearPeriod(year)
			}

			s, err := a.hooks.Summary(p).Fetch(cmd.Context(), a.hooks.Cache())
			if err != nil {
				return userError(err, errs.ActionLoad)
			}

			if a.format == formatTable {
				fmt.Fprintf(a.out, "%s (%s)\n", p.Label(), p.SubLabel(a.now()))
			}

			if byCategory {
				return render(a.out, a.format, toCategoryTotalRows(s))
			}

			if err := render(a.out, a.format, toMonthRows(s)); err != nil {
				return err
			}

			if a.format == formatTable {
				inflow, outflow := s.Totals()
				fmt.Fprintf(a.out, "Inflow %s  Outflow %s  Net %s\n", money(inflow), money(outflow), money(s.Net()))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Calendar year")
	cmd.Flags().IntVarP(&months, "months", "m", cashflow.DefaultMonths, "Size of the trailing window")
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "Show spending per category instead")

	return cmd
}
