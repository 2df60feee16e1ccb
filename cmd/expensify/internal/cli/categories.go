package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "List and manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List default and custom categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cats, err := a.hooks.Categories().Fetch(cmd.Context(), a.hooks.Cache())
				if err != nil {
					return userError(err, errs.ActionLoad)
				}

				return render(a.out, a.format, toCategoryRows(cats))
			},
		},
		newCategoryAddCommand(a),
		&cobra.Command{
			Use:   "delete <id|name>",
			Short: "Delete a custom category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.resolveCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if c.IsDefault {
					return fmt.Errorf("%q is a default category and cannot be deleted", c.Name)
				}

				if _, err := a.hooks.DeleteCategory().Mutate(cmd.Context(), c.ID); err != nil {
					return &friendlyError{msg: category.DeleteErrorMessage(c.Name, err), err: err}
				}

				_, err = fmt.Fprintf(a.out, "Deleted %s.\n", c.Name)

				return err
			},
		},
	)

	return cmd
}

func newCategoryAddCommand(a *app) *cobra.Command {
	var params category.CreateParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.hooks.CreateCategory().Mutate(cmd.Context(), params.Normalize())
			if err != nil {
				return userError(err, errs.ActionSave)
			}

			return render(a.out, a.format, toCategoryRows([]category.Category{*c}))
		},
	}

	cmd.Flags().StringVarP(&params.Name, "name", "n", "", "Category name")
	cmd.Flags().StringVarP(&params.Icon, "icon", "i", category.DefaultIcon, "Icon shown next to the name")
	cmd.Flags().StringVarP(&params.Color, "color", "c", category.DefaultColor, "Chart color as #RRGGBB")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// resolveCategory accepts an id or a case-insensitive name.
func (a *app) resolveCategory(ctx context.Context, ref string) (category.Category, error) {
	cats, err := a.hooks.Categories().Fetch(ctx, a.hooks.Cache())
	if err != nil {
		return category.Category{}, userError(err, errs.ActionLoad)
	}

	if c, ok := category.Find(cats, ref); ok {
		return c, nil
	}

	if c, ok := category.FindByName(cats, ref); ok {
		return c, nil
	}

	return category.Category{}, fmt.Errorf("no category %q", ref)
}
