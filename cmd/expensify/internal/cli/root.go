// Package cli holds the expensify command line, a scriptable front end to
// the same hooks the TUI uses.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/config"
	"github.com/MrJamesThe3rd/expensify/internal/hooks"
	"github.com/MrJamesThe3rd/expensify/internal/logger"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

// app is the state shared by every subcommand. It is built lazily in the
// root's PersistentPreRunE unless an Option injected a client.
type app struct {
	api         *apiclient.Client
	hooks       *hooks.Hooks
	loginOrigin string
	log         *slog.Logger
	out         io.Writer
	now         func() time.Time

	format string
	token  string
}

type Option func(*app)

// WithClient skips configuration loading and talks to api instead.
func WithClient(api *apiclient.Client) Option {
	return func(a *app) {
		a.api = api
		a.loginOrigin = api.BaseURL()
	}
}

func WithOutput(w io.Writer) Option {
	return func(a *app) {
		a.out = w
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *app) {
		a.now = now
	}
}

func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		out: os.Stdout,
		log: logger.Discard(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	cmd := &cobra.Command{
		Use:           "expensify",
		Short:         "Track expenses and income from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}

			return a.init()
		},
	}

	cmd.SetOut(a.out)
	cmd.PersistentFlags().StringVarP(&a.format, "format", "f", formatTable, "Output format: table, json, csv or yaml")
	cmd.PersistentFlags().StringVar(&a.token, "token", "", "Session token, overrides SESSION_TOKEN")

	cmd.AddCommand(
		newMeCommand(a),
		newLoginURLCommand(a),
		newLogoutCommand(a),
		newCategoriesCommand(a),
		newTransactionsCommand(a),
		newSummaryCommand(a),
	)

	return cmd
}

func (a *app) init() error {
	pageSize := 0

	if a.api == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		a.log = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

		api, err := apiclient.New(cfg.Origin(),
			apiclient.WithTimeout(cfg.API.Timeout),
			apiclient.WithLogger(a.log),
		)
		if err != nil {
			return fmt.Errorf("creating api client: %w", err)
		}

		if cfg.API.SessionToken != "" {
			api.SetSessionToken(cfg.API.SessionToken)
		}

		a.api = api
		a.loginOrigin = cfg.LoginOrigin()
		pageSize = cfg.API.PageSize
	}

	if a.token != "" {
		a.api.SetSessionToken(a.token)
	}

	cache := query.New(query.WithLogger(a.log), query.WithClock(a.now))

	opts := []hooks.Option{hooks.WithLogger(a.log)}
	if pageSize > 0 {
		opts = append(opts, hooks.WithPageSize(pageSize))
	}

	a.hooks = hooks.New(a.api, cache, opts...)

	return nil
}
