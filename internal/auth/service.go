package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// CurrentUser returns the user owning the session. A missing session
// surfaces as a 401 *apiclient.StatusError.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	user, err := apiclient.Call[User](ctx, s.api, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, fmt.Errorf("current user: %w", apiclient.ErrNoData)
	}

	return user, nil
}

// Logout ends the server-side session.
func (s *Service) Logout(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// LoginURL is where a browser must be sent to start the Google OAuth flow.
// origin has to be the backend itself, not a proxy in front of it.
func LoginURL(origin string) string {
	return strings.TrimRight(origin, "/") + "/auth/google"
}
