package transaction

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// List fetches one page. An empty envelope yields an empty page echoing the request.
func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}

	p, err := apiclient.Call[Page](ctx, s.api, http.MethodGet, "/api/transactions", query, nil)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return EmptyPage(page, pageSize), nil
	}

	if p.Items == nil {
		p.Items = []Transaction{}
	}

	return p, nil
}

func (s *Service) Create(ctx context.Context, params Params) (*Transaction, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx, err := apiclient.Call[Transaction](ctx, s.api, http.MethodPost, "/api/transactions", nil, params)
	if err != nil {
		return nil, err
	}

	if tx == nil {
		return nil, fmt.Errorf("create transaction: %w", apiclient.ErrNoData)
	}

	return tx, nil
}

func (s *Service) Update(ctx context.Context, id string, params Params) (*Transaction, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx, err := apiclient.Call[Transaction](ctx, s.api, http.MethodPut, "/api/transactions/"+url.PathEscape(id), nil, params)
	if err != nil {
		return nil, err
	}

	if tx == nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, apiclient.ErrNoData)
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil, nil)
}
