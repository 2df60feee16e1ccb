// Package apitest is an in-memory stand-in for the expense backend, speaking
// the same routes, envelope and session cookie. Tests point an
// apiclient.Client at it.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/auth"
	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

type storedTx struct {
	transaction.Transaction
	userID string
}

type Server struct {
	mu sync.Mutex

	users      map[string]*auth.User
	sessions   map[string]string
	categories []category.Category
	txs        []*storedTx

	failures map[string][]int
	calls    map[string]int

	now    func() time.Time
	router http.Handler
}

type Option func(*Server)

// WithClock fixes the time used for timestamps and trailing-month windows.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		users:    make(map[string]*auth.User),
		sessions: make(map[string]string),
		failures: make(map[string][]int),
		calls:    make(map[string]int),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.categories = seedCategories(s.now())
	s.router = s.routes()

	return s
}

// Start serves s on a local listener closed when the test ends.
func Start(t testing.TB, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	s := New(opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	return s, ts
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Login creates a user with a live session and returns the session token.
func (s *Server) Login(name, email string) (token string, user auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	u := &auth.User{
		ID:        uuid.NewString(),
		GoogleID:  uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	token = uuid.NewString()
	s.users[u.ID] = u
	s.sessions[token] = u.ID

	return token, *u
}

// Fail makes the next len(statuses) requests to method and path answer with
// those statuses, in order, instead of being handled.
func (s *Server) Fail(method, path string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := method + " " + path
	s.failures[k] = append(s.failures[k], statuses...)
}

// Calls counts the requests received for method and path, including failed ones.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[method+" "+path]
}

// AddTransaction stores a transaction for the user owning token, bypassing HTTP.
func (s *Server) AddTransaction(token string, p transaction.Params) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.sessions[token]
	if !ok {
		return transaction.Transaction{}, fmt.Errorf("unknown session %q", token)
	}

	return s.createTxLocked(userID, p.CategoryID, p.Type, p.Amount, p.Description, p.Date)
}

func (s *Server) createTxLocked(userID, categoryID string, typ transaction.Type, amount decimal.Decimal, description string, date time.Time) (transaction.Transaction, error) {
	cat, ok := s.categoryLocked(userID, categoryID)
	if !ok {
		return transaction.Transaction{}, fmt.Errorf("category %s: %w", categoryID, errInvalidID)
	}

	now := s.now()
	tx := &storedTx{
		userID: userID,
		Transaction: transaction.Transaction{
			ID:            uuid.NewString(),
			CategoryID:    cat.ID,
			CategoryName:  cat.Name,
			CategoryColor: cat.Color,
			CategoryIcon:  cat.Icon,
			Type:          typ,
			Amount:        amount,
			Description:   description,
			Date:          date.UTC(),
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	s.txs = append(s.txs, tx)

	return tx.Transaction, nil
}

// categoryLocked finds a category visible to userID: a default or one of theirs.
func (s *Server) categoryLocked(userID, id string) (category.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id && (c.IsDefault || (c.UserID != nil && *c.UserID == userID)) {
			return c, true
		}
	}

	return category.Category{}, false
}
