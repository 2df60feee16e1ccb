// Package hooks binds each resource access function to a query cache slot
// and declares its staleness window, retry policy and the slots every
// mutation invalidates. Views read and write through it only.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/auth"
	"github.com/MrJamesThe3rd/expensify/internal/cashflow"
	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/query"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

const (
	CurrentUserStaleTime = 5 * time.Minute
	CategoriesStaleTime  = 10 * time.Minute
)

var (
	CurrentUserKey  = query.Key{"auth", "me"}
	CategoriesKey   = query.Key{"categories"}
	TransactionsKey = query.Key{"transactions"}
	CashflowKey     = query.Key{"cashflow"}
)

func TransactionPageKey(page int) query.Key {
	return query.Key{"transactions", page}
}

func SummaryKey(p cashflow.Period) query.Key {
	if p.IsTrailing() {
		return query.Key{"cashflow", "summary", p.KeySegment()}
	}

	return query.Key{"cashflow", "summary", p.Year}
}

// Session is the client-held credential dropped on logout.
type Session interface {
	ClearSession()
}

type Hooks struct {
	cache *query.Client

	auth         *auth.Service
	categories   *category.Service
	transactions *transaction.Service
	cashflow     *cashflow.Service

	session  Session
	pageSize int
	log      *slog.Logger
}

type Option func(*Hooks)

func WithPageSize(n int) Option {
	return func(h *Hooks) {
		h.pageSize = n
	}
}

// WithSession sets the credential store cleared by Logout.
func WithSession(s Session) Option {
	return func(h *Hooks) {
		h.session = s
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(h *Hooks) {
		h.log = log
	}
}

func New(api apiclient.Doer, cache *query.Client, opts ...Option) *Hooks {
	h := &Hooks{
		cache:        cache,
		auth:         auth.NewService(api),
		categories:   category.NewService(api),
		transactions: transaction.NewService(api),
		cashflow:     cashflow.NewService(api),
		pageSize:     20,
		log:          slog.Default(),
	}

	if s, ok := api.(Session); ok {
		h.session = s
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Hooks) Cache() *query.Client { return h.cache }
func (h *Hooks) PageSize() int        { return h.pageSize }

// CurrentUser is never retried: a 401 means "not logged in".
func (h *Hooks) CurrentUser() query.Query[*auth.User] {
	return query.Query[*auth.User]{
		Key:       CurrentUserKey,
		Fn:        h.auth.CurrentUser,
		StaleTime: CurrentUserStaleTime,
		Retry:     query.NoRetry,
	}
}

func (h *Hooks) Categories() query.Query[[]category.Category] {
	return query.Query[[]category.Category]{
		Key:       CategoriesKey,
		Fn:        h.categories.List,
		StaleTime: CategoriesStaleTime,
	}
}

// Transactions reads one page and keeps the previous page on screen while
// the next one loads.
func (h *Hooks) Transactions(page int) query.Query[*transaction.Page] {
	return query.Query[*transaction.Page]{
		Key: TransactionPageKey(page),
		Fn: func(ctx context.Context) (*transaction.Page, error) {
			return h.transactions.List(ctx, page, h.pageSize)
		},
		KeepPreviousData: true,
	}
}

func (h *Hooks) Summary(p cashflow.Period) query.Query[*cashflow.Summary] {
	return query.Query[*cashflow.Summary]{
		Key: SummaryKey(p),
		Fn: func(ctx context.Context) (*cashflow.Summary, error) {
			return h.cashflow.Summary(ctx, p)
		},
	}
}

func (h *Hooks) CreateCategory() *query.Mutation[category.CreateParams, *category.Category] {
	return query.NewMutation(h.cache, h.categories.Create, CategoriesKey)
}

// DeleteCategory takes the category id. A category still referenced by
// transactions fails with category.ErrInUse and stays cached as is.
func (h *Hooks) DeleteCategory() *query.Mutation[string, struct{}] {
	return query.NewMutation(h.cache, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, h.categories.Delete(ctx, id)
	}, CategoriesKey)
}

func (h *Hooks) CreateTransaction() *query.Mutation[transaction.Params, *transaction.Transaction] {
	return query.NewMutation(h.cache, h.transactions.Create, TransactionsKey, CashflowKey)
}

type UpdateTransactionParams struct {
	ID     string
	Params transaction.Params
}

func (h *Hooks) UpdateTransaction() *query.Mutation[UpdateTransactionParams, *transaction.Transaction] {
	return query.NewMutation(h.cache, func(ctx context.Context, p UpdateTransactionParams) (*transaction.Transaction, error) {
		return h.transactions.Update(ctx, p.ID, p.Params)
	}, TransactionsKey, CashflowKey)
}

func (h *Hooks) DeleteTransaction() *query.Mutation[string, struct{}] {
	return query.NewMutation(h.cache, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, h.transactions.Delete(ctx, id)
	}, TransactionsKey, CashflowKey)
}

// Logout ends the server session, then drops every cached response and the
// local session cookie. The local state is dropped even when the server
// call fails, so no data of the old identity survives.
func (h *Hooks) Logout() *query.Mutation[struct{}, struct{}] {
	return query.NewMutation(h.cache, func(ctx context.Context, _ struct{}) (struct{}, error) {
		err := h.auth.Logout(ctx)

		h.DropSession()

		if err != nil {
			h.log.WarnContext(ctx, "server logout failed", "error", err)
			return struct{}{}, fmt.Errorf("logout: %w", err)
		}

		return struct{}{}, nil
	})
}

// DropSession forgets the signed-in identity locally: every cached response
// and the session cookie. Used when the server has already rejected it.
func (h *Hooks) DropSession() {
	h.cache.Clear()

	if h.session != nil {
		h.session.ClearSession()
	}
}

// Prefetch warms the slots the first screen needs, concurrently. It stops
// at the first failure.
func (h *Hooks) Prefetch(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := h.Categories().Fetch(ctx, h.cache)
		return err
	})

	g.Go(func() error {
		_, err := h.Transactions(1).Fetch(ctx, h.cache)
		return err
	})

	g.Go(func() error {
		_, err := h.Summary(cashflow.Period{}).Fetch(ctx, h.cache)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("prefetching: %w", err)
	}

	return nil
}
