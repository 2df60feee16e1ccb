package cashflow

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// Summary fetches the aggregates for p. Missing series come back empty.
func (s *Service) Summary(ctx context.Context, p Period) (*Summary, error) {
	sum, err := apiclient.Call[Summary](ctx, s.api, http.MethodGet, "/api/cashflow/summary", p.Query(), nil)
	if err != nil {
		return nil, err
	}

	if sum == nil {
		return EmptySummary(), nil
	}

	if sum.Monthly == nil {
		sum.Monthly = []MonthlyPoint{}
	}

	if sum.ByCategory == nil {
		sum.ByCategory = []CategoryPoint{}
	}

	return sum, nil
}
