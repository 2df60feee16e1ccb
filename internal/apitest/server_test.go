package apitest_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensify/internal/apitest"
)

func get(t *testing.T, url, token string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return resp, body
}

func TestServer_RequiresSession(t *testing.T) {
	_, ts := apitest.Start(t)

	resp, body := get(t, ts.URL+"/api/categories", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])

	resp, _ = get(t, ts.URL+"/auth/me", "not-a-session")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_CategoriesOtherLast(t *testing.T) {
	s, ts := apitest.Start(t)
	token, _ := s.Login("Ada", "ada@example.com")

	resp, body := get(t, ts.URL+"/api/categories", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cats := body["data"].([]any)
	require.Len(t, cats, 15)
	assert.Equal(t, "Dividends", cats[0].(map[string]any)["name"])
	assert.Equal(t, "Other", cats[len(cats)-1].(map[string]any)["name"])
}

func TestServer_PageSizeClamp(t *testing.T) {
	s, ts := apitest.Start(t)
	token, _ := s.Login("Ada", "ada@example.com")

	_, body := get(t, ts.URL+"/api/transactions?page=0&page_size=500", token)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["page"])
	assert.EqualValues(t, 20, data["page_size"])
	assert.EqualValues(t, 0, data["total_pages"])
	assert.Empty(t, data["items"])
}

func TestServer_InvalidYear(t *testing.T) {
	s, ts := apitest.Start(t)
	token, _ := s.Login("Ada", "ada@example.com")

	resp, body := get(t, ts.URL+"/api/cashflow/summary?year=1999", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid year", body["error"])
}

func TestServer_Fail(t *testing.T) {
	s, ts := apitest.Start(t)
	token, _ := s.Login("Ada", "ada@example.com")

	s.Fail(http.MethodGet, "/api/categories", http.StatusBadGateway)

	resp, _ := get(t, ts.URL+"/api/categories", token)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/categories", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, s.Calls(http.MethodGet, "/api/categories"))
}
