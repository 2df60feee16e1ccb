package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/auth"
)

func TestService_CurrentUser(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *apiclient.MockDoer)
		wantErr   error
		wantEmail string
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/auth/me", gomock.Nil(), gomock.Nil(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, _ url.Values, _, out any) error {
						out.(*apiclient.Envelope[auth.User]).Data = &auth.User{ID: "u1", Email: "ada@example.com"}
						return nil
					})
			},
			wantEmail: "ada@example.com",
		},
		{
			name: "MissingPayload",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/auth/me", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: apiclient.ErrNoData,
		},
		{
			name: "Unauthorized",
			setupMock: func(m *apiclient.MockDoer) {
				m.EXPECT().
					Do(gomock.Any(), http.MethodGet, "/auth/me", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&apiclient.StatusError{StatusCode: http.StatusUnauthorized})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			api := apiclient.NewMockDoer(ctrl)
			tt.setupMock(api)

			got, err := auth.NewService(api).CurrentUser(context.Background())

			if tt.wantEmail == "" {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErr != nil {
					assert.True(t, errors.Is(err, tt.wantErr))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, got.Email)
		})
	}
}

func TestService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)

	api := apiclient.NewMockDoer(ctrl)
	api.EXPECT().
		Do(gomock.Any(), http.MethodPost, "/auth/logout", gomock.Nil(), gomock.Nil(), gomock.Nil()).
		Return(nil)

	assert.NoError(t, auth.NewService(api).Logout(context.Background()))
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/auth/google", auth.LoginURL("https://api.example.com/"))
	assert.Equal(t, "http://localhost:8080/auth/google", auth.LoginURL("http://localhost:8080"))
}
