package category

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

// ErrInUse is returned by Delete when transactions still reference the category.
var ErrInUse = errors.New("category in use")

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

type CreateParams struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Normalize trims the name and fills in the form defaults.
func (p CreateParams) Normalize() CreateParams {
	p.Name = strings.TrimSpace(p.Name)

	if p.Icon == "" {
		p.Icon = DefaultIcon
	}

	if p.Color == "" {
		p.Color = DefaultColor
	}

	return p
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errs.NewValidationError("name", "Category name is required.")
	}

	return nil
}

// List returns default and custom categories. An empty envelope yields an empty list.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	cats, err := apiclient.Call[[]Category](ctx, s.api, http.MethodGet, "/api/categories", nil, nil)
	if err != nil {
		return nil, err
	}

	if cats == nil || *cats == nil {
		return []Category{}, nil
	}

	return *cats, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cat, err := apiclient.Call[Category](ctx, s.api, http.MethodPost, "/api/categories", nil, params)
	if err != nil {
		return nil, err
	}

	if cat == nil {
		return nil, fmt.Errorf("create category: %w", apiclient.ErrNoData)
	}

	return cat, nil
}

// Delete removes a custom category. A conflict from the server is reported
// as ErrInUse while keeping the underlying *apiclient.StatusError reachable.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.api.Do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil, nil)
	if err != nil && apiclient.IsConflict(err) {
		return fmt.Errorf("%w: %w", ErrInUse, err)
	}

	return err
}

// DeleteErrorMessage renders a failed Delete for the user.
func DeleteErrorMessage(name string, err error) string {
	if errors.Is(err, ErrInUse) {
		return fmt.Sprintf("%q has existing transactions and cannot be deleted.", name)
	}

	return "Failed to delete category. Please try again."
}
