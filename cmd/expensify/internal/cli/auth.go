package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/expensify/internal/auth"
)

func newMeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.hooks.CurrentUser().Fetch(cmd.Context(), a.hooks.Cache())
			if err != nil {
				return fmt.Errorf("fetching current user: %w", err)
			}

			return render(a.out, a.format, []userRow{toUserRow(user)})
		},
	}
}

func newLoginURLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login-url",
		Short: "Print the address that starts the Google sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.out, auth.LoginURL(a.loginOrigin))
			return err
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.hooks.Logout().Mutate(cmd.Context(), struct{}{}); err != nil {
				return err
			}

			_, err := fmt.Fprintln(a.out, "Signed out.")

			return err
		},
	}
}
