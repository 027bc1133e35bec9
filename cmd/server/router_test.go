package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/api"
	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/platform/backend"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{
			Driver:       backend.DriverSQLite,
			Path:         sqlite.MemoryPath,
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
	}
}

// newTestServer starts the full router on an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	l, _ := logger.NewTestLogger()

	b, err := backend.Open(context.Background(), cfg.Database, l)
	require.NoError(t, err)

	app, err := newApplication(cfg, l, b)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		srv.Close()
		app.cleanup()
	})
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQualities(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/qualities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qualities []api.QualityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qualities))
	assert.Len(t, qualities, 6)
}

func TestReviewSession(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	base := fmt.Sprintf("%s/api/learners/%s", srv.URL, uuid.New())

	resp := doJSON(t, http.MethodPost, base+"/cards", api.CreateCardsRequest{
		Cards: []api.CardContentRequest{
			{Question: "capital of France?", Answer: "Paris", Difficulty: "easy"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created []api.CardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Len(t, created, 1)
	cardID := created[0].ID

	resp = doJSON(t, http.MethodGet, base+"/due/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next api.CardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&next))
	assert.Equal(t, cardID, next.ID)

	quality := 4
	resp = doJSON(t, http.MethodPost, base+"/cards/"+cardID+"/review", api.ReviewRequest{Quality: &quality})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reviewed api.CardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reviewed))
	assert.Equal(t, 1, reviewed.Review.Interval)
	assert.Equal(t, 1, reviewed.Review.Repetitions)
	assert.Equal(t, "Due tomorrow", reviewed.NextReviewText)

	resp = doJSON(t, http.MethodGet, base+"/due/next", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress []api.ProgressResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&progress))
	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].FlashcardsReviewed)
}

func TestLearnerRoutes_RejectInvalidLearner(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/learners/not-a-uuid/cards", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCardOwnership(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := fmt.Sprintf("%s/api/learners/%s", srv.URL, uuid.New())
	other := fmt.Sprintf("%s/api/learners/%s", srv.URL, uuid.New())

	resp := doJSON(t, http.MethodPost, owner+"/cards", api.CreateCardsRequest{
		Cards: []api.CardContentRequest{{Question: "q", Answer: "a"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created []api.CardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	quality := 5
	resp = doJSON(t, http.MethodPost, other+"/cards/"+created[0].ID+"/review", api.ReviewRequest{Quality: &quality})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, other+"/cards/"+created[0].ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Parallel()
	assert.NoError(t, loadDotEnv("does-not-exist.env"))
}
