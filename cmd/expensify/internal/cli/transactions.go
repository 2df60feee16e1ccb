package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/hooks"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

const dateLayout = "2006-01-02"

func newTransactionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and manage transactions",
	}

	cmd.AddCommand(
		newTransactionListCommand(a),
		newTransactionAddCommand(a),
		newTransactionUpdateCommand(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.hooks.DeleteTransaction().Mutate(cmd.Context(), args[0]); err != nil {
					return userError(err, errs.ActionDelete)
				}

				_, err := fmt.Fprintln(a.out, "Transaction deleted.")

				return err
			},
		},
	)

	return cmd
}

func newTransactionListCommand(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.hooks.Transactions(max(page, 1)).Fetch(cmd.Context(), a.hooks.Cache())
			if err != nil {
				return userError(err, errs.ActionLoad)
			}

			rows := make([]transactionRow, 0, len(p.Items))
			for _, tx := range p.Items {
				rows = append(rows, toTransactionRow(tx))
			}

			if err := render(a.out, a.format, rows); err != nil {
				return err
			}

			if a.format == formatTable {
				fmt.Fprintf(a.out, "Page %d of %d, %d transactions\n", p.Page, max(p.TotalPages, 1), p.Total)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")

	return cmd
}

// txFlags are the form fields of add and update.
type txFlags struct {
	typ         string
	amount      string
	category    string
	description string
	date        string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typ, "type", "t", string(transaction.TypeOutflow), "inflow or outflow")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Positive amount, e.g. 42.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category id or name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Free text")
	cmd.Flags().StringVar(&f.date, "date", "", "Calendar day as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("amount")
}

func (a *app) txParams(cmd *cobra.Command, f txFlags) (transaction.Params, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
	if err != nil {
		return transaction.Params{}, errs.NewValidationError("amount", "Amount must be a positive number.")
	}

	date := a.now()
	if f.date != "" {
		date, err = time.Parse(dateLayout, strings.TrimSpace(f.date))
		if err != nil {
			return transaction.Params{}, errs.NewValidationError("date", "Use the YYYY-MM-DD format.")
		}
	}

	typ := transaction.Type(strings.ToLower(f.typ))

	var categoryID string

	if f.category != "" {
		c, err := a.resolveCategory(cmd.Context(), f.category)
		if err != nil {
			return transaction.Params{}, err
		}

		categoryID = c.ID
	} else {
		cats, err := a.hooks.Categories().Fetch(cmd.Context(), a.hooks.Cache())
		if err != nil {
			return transaction.Params{}, userError(err, errs.ActionLoad)
		}

		categoryID = transaction.DefaultCategoryID(typ, cats)
	}

	p := transaction.Params{
		CategoryID:  categoryID,
		Type:        typ,
		Amount:      amount,
		Description: f.description,
		Date:        date,
	}.Normalize()

	return p, p.Validate()
}

func newTransactionAddCommand(a *app) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense or income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := a.txParams(cmd, f)
			if err != nil {
				return err
			}

			tx, err := a.hooks.CreateTransaction().Mutate(cmd.Context(), params)
			if err != nil {
				return userError(err, errs.ActionSave)
			}

			return render(a.out, a.format, []transactionRow{toTransactionRow(*tx)})
		},
	}

	f.register(cmd)

	return cmd
}

func newTransactionUpdateCommand(a *app) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.txParams(cmd, f)
			if err != nil {
				return err
			}

			tx, err := a.hooks.UpdateTransaction().Mutate(cmd.Context(), hooks.UpdateTransactionParams{
				ID:     args[0],
				Params: params,
			})
			if err != nil {
				return userError(err, errs.ActionSave)
			}

			return render(a.out, a.format, []transactionRow{toTransactionRow(*tx)})
		},
	}

	f.register(cmd)

	return cmd
}
