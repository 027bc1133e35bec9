package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/api/middleware"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// newTestRouter mounts route under /learners/{learnerID} with the learner middleware.
func newTestRouter(method, pattern string, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Route("/learners/{learnerID}", func(r chi.Router) {
		r.Use(middleware.Learner)
		r.Method(method, pattern, handler)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testHandlerLogger() *slog.Logger {
	log, _ := logger.NewTestLogger()
	return log
}

func fixedClock() srs.Clock {
	return srs.NewFixedClock(handlerNow)
}

func sampleCard(userID uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:         uuid.New(),
		UserID:     userID,
		Question:   "What is the capital of France?",
		Answer:     "Paris",
		Difficulty: domain.DifficultyMedium,
		Review:     domain.NewReviewState(handlerNow.Add(-time.Hour)),
		CreatedAt:  handlerNow.Add(-24 * time.Hour),
		UpdatedAt:  handlerNow.Add(-24 * time.Hour),
	}
}
