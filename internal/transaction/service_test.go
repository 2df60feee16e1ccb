package transaction_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

func fill[T any](v T) func(context.Context, string, string, url.Values, any, any) error {
	return func(_ context.Context, _, _ string, _ url.Values, _, out any) error {
		out.(*apiclient.Envelope[T]).Data = &v
		return nil
	}
}

func validParams() transaction.Params {
	return transaction.Params{
		CategoryID:  "c1",
		Type:        transaction.TypeOutflow,
		Amount:      decimal.RequireFromString("42.50"),
		Description: " Coffee ",
		Date:        time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
	}
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *apiclient.MockDoer)
		want      *transaction.Page
		wantErr   bool
	}

	query := url.Values{"page": {"3"}, "page_size": {"20"}}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/api/transactions", query, gomock.Nil(), gomock.Any()).
					DoAndReturn(fill(transaction.Page{
						Items:      []transaction.Transaction{{ID: "t1"}},
						Total:      41,
						Page:       3,
						PageSize:   20,
						TotalPages: 3,
					}))
			},
			want: &transaction.Page{
				Items:      []transaction.Transaction{{ID: "t1"}},
				Total:      41,
				Page:       3,
				PageSize:   20,
				TotalPages: 3,
			},
		},
		{
			name: "MissingPayloadIsEmptyPage",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/api/transactions", query, gomock.Nil(), gomock.Any()).
					Return(nil)
			},
			want: &transaction.Page{Items: []transaction.Transaction{}, Page: 3, PageSize: 20},
		},
		{
			name: "Error",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/api/transactions", query, gomock.Nil(), gomock.Any()).
					Return(errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := apiclient.NewMockDoer(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(api)
			}

			got, err := transaction.NewService(api).List(context.Background(), 3, 20)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    transaction.Params
		setupMock func(m *apiclient.MockDoer)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams(),
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodPost, "/api/transactions", gomock.Nil(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, _ url.Values, body, out any) error {
						p := body.(transaction.Params)
						if p.Description != "Coffee" || p.Date.Hour() != 0 {
							return errors.New("params were not normalized")
						}

						out.(*apiclient.Envelope[transaction.Transaction]).Data = &transaction.Transaction{ID: "t1", CategoryName: "Food"}

						return nil
					})
			},
		},
		{
			name: "ValidationSkipsRequest",
			params: func() transaction.Params {
				p := validParams()
				p.Amount = decimal.Zero

				return p
			}(),
			wantErr: &errs.ValidationError{},
		},
		{
			name:   "MissingPayload",
			params: validParams(),
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodPost, "/api/transactions", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: apiclient.ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			api := apiclient.NewMockDoer(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(api)
			}

			got, err := transaction.NewService(api).Create(context.Background(), tt.params)

			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, "t1", got.ID)
			case *errs.ValidationError:
				assert.ErrorAs(t, err, &want)
				assert.Nil(t, got)
			default:
				assert.ErrorIs(t, err, want)
				assert.Nil(t, got)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)

	api := apiclient.NewMockDoer(ctrl)
	api.EXPECT().
		Do(gomock.Any(), http.MethodPut, "/api/transactions/t1", gomock.Nil(), gomock.Any(), gomock.Any()).
		DoAndReturn(fill(transaction.Transaction{ID: "t1", Description: "Coffee"}))
	api.EXPECT().
		Do(gomock.Any(), http.MethodPut, "/api/transactions/t2", gomock.Nil(), gomock.Any(), gomock.Any()).
		Return(&apiclient.StatusError{StatusCode: http.StatusNotFound})

	svc := transaction.NewService(api)

	got, err := svc.Update(context.Background(), "t1", validParams())
	require.NoError(t, err)
	assert.Equal(t, "Coffee", got.Description)

	_, err = svc.Update(context.Background(), "t2", validParams())
	assert.True(t, apiclient.IsNotFound(err))
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)

	api := apiclient.NewMockDoer(ctrl)
	api.EXPECT().
		Do(gomock.Any(), http.MethodDelete, "/api/transactions/t1", gomock.Nil(), gomock.Nil(), gomock.Nil()).
		Return(nil)

	assert.NoError(t, transaction.NewService(api).Delete(context.Background(), "t1"))
}
