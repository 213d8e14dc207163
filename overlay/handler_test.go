package overlay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, startPath string) (*httptest.Server, *testStack) {
	t.Helper()
	stack := newTestStack(t, startPath)
	server := httptest.NewServer(NewHandler(stack.controller, nil))
	t.Cleanup(server.Close)
	return server, stack
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHandler_Healthz(t *testing.T) {
	server, _ := newTestServer(t, "/index.html")

	var body map[string]string
	resp := getJSON(t, server.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestHandler_Search(t *testing.T) {
	server, _ := newTestServer(t, "/guide.html")

	var body searchResponse
	resp := getJSON(t, server.URL+"/api/search?q=widgets", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "widgets", body.Query)
	assert.False(t, body.NoQuery)
	require.NotEmpty(t, body.Results)
	assert.Equal(t, "/guide.html", body.Results[0].PageURL)
	assert.True(t, body.Results[0].IsCurrentPage)
	assert.Positive(t, body.Results[0].Relevance)
}

func TestHandler_Search_NoQuery(t *testing.T) {
	server, _ := newTestServer(t, "/index.html")

	var body searchResponse
	resp := getJSON(t, server.URL+"/api/search?q=++", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.NoQuery)
	assert.Empty(t, body.Results)
}

func TestHandler_Navigate(t *testing.T) {
	server, stack := newTestServer(t, "/index.html")

	resp, err := http.Post(server.URL+"/api/navigate", "application/json",
		strings.NewReader(`{"unitId":"Guide-section","pageUrl":"/guide.html","query":"widgets"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body navigateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "navigate", body.Action)
	assert.Equal(t, "/guide.html", stack.viewport.Path())
}

func TestHandler_Navigate_BadRequest(t *testing.T) {
	server, _ := newTestServer(t, "/index.html")

	resp, err := http.Post(server.URL+"/api/navigate", "application/json",
		strings.NewReader(`{"unitId":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/navigate", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_PageLoad(t *testing.T) {
	server, _ := newTestServer(t, "/index.html")

	resp, err := http.Post(server.URL+"/api/pageload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
