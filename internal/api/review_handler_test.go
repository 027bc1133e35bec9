package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/mocks"
	"github.com/phrazzld/studydeck/internal/service/card_review"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewHandler_ListDue(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	cards := []*domain.Card{sampleCard(learnerID), sampleCard(learnerID)}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{name: "no limit", query: "", wantStatus: http.StatusOK, wantLimit: 0},
		{name: "limit", query: "?limit=5", wantStatus: http.StatusOK, wantLimit: 5},
		{name: "negative limit", query: "?limit=-1", wantStatus: http.StatusBadRequest},
		{name: "non numeric limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotLimit := -1
			svc := mocks.NewMockCardReviewService()
			svc.ListDueFn = func(_ context.Context, _ uuid.UUID, limit int) ([]*domain.Card, error) {
				gotLimit = limit
				return cards, nil
			}

			h := NewReviewHandler(svc, fixedClock(), testHandlerLogger())
			router := newTestRouter(http.MethodGet, "/due", h.ListDue)
			w := doRequest(t, router, http.MethodGet, "/learners/"+learnerID.String()+"/due"+tt.query, nil)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantLimit, gotLimit)

			var resp []CardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp, 2)
		})
	}
}

func TestReviewHandler_GetNextCard(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	card := sampleCard(learnerID)

	tests := []struct {
		name       string
		svc        *mocks.MockCardReviewService
		wantStatus int
		wantError  string
	}{
		{name: "card due", svc: mocks.NewMockCardReviewService(mocks.WithNextCard(card)), wantStatus: http.StatusOK},
		{name: "nothing due", svc: mocks.NewMockCardReviewServiceWithNoCardsDue(), wantStatus: http.StatusNoContent},
		{
			name:       "store failure",
			svc:        mocks.NewMockCardReviewService(mocks.WithError(card_review.NewGetNextCardError("failed", store.ErrInternal))),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to get next review card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewReviewHandler(tt.svc, fixedClock(), testHandlerLogger())
			router := newTestRouter(http.MethodGet, "/due/next", h.GetNextCard)
			w := doRequest(t, router, http.MethodGet, "/learners/"+learnerID.String()+"/due/next", nil)

			require.Equal(t, tt.wantStatus, w.Code)
			switch {
			case tt.wantError != "":
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
			case tt.wantStatus == http.StatusNoContent:
				assert.Empty(t, w.Body.String())
			default:
				var resp CardResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, card.ID.String(), resp.ID)
			}
		})
	}
}

func TestReviewHandler_SubmitReview(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	card := sampleCard(learnerID)
	reviewed := *card
	reviewedAt := handlerNow
	reviewed.LastReviewedAt = &reviewedAt
	reviewed.Review = domain.ReviewState{
		Interval:    1,
		Repetitions: 1,
		EaseFactor:  2.6,
		LastQuality: domain.QualityEasy,
		DueDate:     handlerNow.AddDate(0, 0, 1),
	}

	tests := []struct {
		name        string
		body        any
		err         error
		wantStatus  int
		wantError   string
		wantQuality domain.Quality
		wantCalls   int
	}{
		{
			name:        "perfect recall",
			body:        map[string]int{"quality": 5},
			wantStatus:  http.StatusOK,
			wantQuality: domain.QualityEasy,
			wantCalls:   1,
		},
		{
			name:        "blackout is a valid rating",
			body:        map[string]int{"quality": 0},
			wantStatus:  http.StatusOK,
			wantQuality: domain.QualityBlackout,
			wantCalls:   1,
		},
		{name: "missing quality", body: map[string]string{}, wantStatus: http.StatusBadRequest, wantError: "Invalid quality: required field"},
		{name: "quality too high", body: map[string]int{"quality": 6}, wantStatus: http.StatusBadRequest, wantError: "Invalid quality: too large"},
		{name: "quality negative", body: map[string]int{"quality": -1}, wantStatus: http.StatusBadRequest, wantError: "Invalid quality: too small"},
		{name: "unknown field", body: map[string]any{"quality": 3, "outcome": "good"}, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
		{
			name:       "not owned",
			body:       map[string]int{"quality": 4},
			err:        card_review.ErrCardNotOwned,
			wantStatus: http.StatusForbidden,
			wantError:  "You do not own this card",
			wantCalls:  1,
		},
		{
			name:       "card missing",
			body:       map[string]int{"quality": 4},
			err:        card_review.ErrCardNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Card not found",
			wantCalls:  1,
		},
		{
			name:       "service rejects quality",
			body:       map[string]int{"quality": 4},
			err:        fmt.Errorf("%w: %d", card_review.ErrInvalidAnswer, 4),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid quality: must be between 0 and 5",
			wantCalls:  1,
		},
		{
			name:       "storage failure",
			body:       map[string]int{"quality": 4},
			err:        card_review.NewSubmitAnswerError("failed to save review state", store.ErrInternal),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to submit answer",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewMockCardReviewService(mocks.WithUpdatedCard(&reviewed), mocks.WithError(tt.err))
			h := NewReviewHandler(svc, fixedClock(), testHandlerLogger())
			router := newTestRouter(http.MethodPost, "/cards/{id}/review", h.SubmitReview)

			path := "/learners/" + learnerID.String() + "/cards/" + card.ID.String() + "/review"
			w := doRequest(t, router, http.MethodPost, path, tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalls, svc.SubmitAnswerCount())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
				return
			}

			answer, ok := svc.LastAnswer()
			require.True(t, ok)
			assert.Equal(t, tt.wantQuality, answer.Quality)

			var resp CardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 1, resp.Review.Interval)
			assert.Equal(t, 2.6, resp.Review.EaseFactor)
			assert.Equal(t, "Due tomorrow", resp.NextReviewText)
			require.NotNil(t, resp.LastReviewedAt)
			assert.True(t, resp.LastReviewedAt.Equal(handlerNow))
		})
	}
}

func TestReviewHandler_PostponeCard(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	card := sampleCard(learnerID)
	postponed := *card
	postponed.Review.DueDate = handlerNow.AddDate(0, 0, 3)
	path := "/learners/" + learnerID.String() + "/cards/" + card.ID.String() + "/postpone"

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewMockCardReviewService(mocks.WithUpdatedCard(&postponed))
		h := NewReviewHandler(svc, fixedClock(), testHandlerLogger())
		router := newTestRouter(http.MethodPost, "/cards/{id}/postpone", h.PostponeCard)

		w := doRequest(t, router, http.MethodPost, path, map[string]int{"days": 3})
		require.Equal(t, http.StatusOK, w.Code)

		var resp CardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Due in 3 days", resp.NextReviewText)
		assert.Equal(t, []int{3}, svc.PostponeCardCalls.Days)
	})

	for _, days := range []int{0, -2} {
		t.Run(fmt.Sprintf("rejects %d days", days), func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewMockCardReviewService()
			h := NewReviewHandler(svc, fixedClock(), testHandlerLogger())
			router := newTestRouter(http.MethodPost, "/cards/{id}/postpone", h.PostponeCard)

			w := doRequest(t, router, http.MethodPost, path, map[string]int{"days": days})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid days: too small", decodeError(t, w).Error)
			assert.Zero(t, svc.PostponeCardCalls.Count)
		})
	}
}

func TestReviewHandler_GetProgress(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	documentID := uuid.New()
	studied := handlerNow.Add(-2 * time.Hour)

	svc := mocks.NewMockCardReviewService()
	svc.Progress = []*domain.StudyProgress{
		{UserID: learnerID, DocumentID: documentID, FlashcardsReviewed: 7, RetentionRate: 100, LastStudiedAt: studied},
		{UserID: learnerID, DocumentID: uuid.Nil},
	}

	h := NewReviewHandler(svc, fixedClock(), testHandlerLogger())
	router := newTestRouter(http.MethodGet, "/progress", h.GetProgress)
	w := doRequest(t, router, http.MethodGet, "/learners/"+learnerID.String()+"/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, documentID.String(), resp[0].DocumentID)
	assert.Equal(t, 7, resp[0].FlashcardsReviewed)
	require.NotNil(t, resp[0].LastStudiedAt)
	assert.Empty(t, resp[1].DocumentID)
	assert.Nil(t, resp[1].LastStudiedAt)
}

func TestListQualities(t *testing.T) {
	t.Parallel()

	w := doRequest(t, http.HandlerFunc(ListQualities), http.MethodGet, "/api/qualities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []QualityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 6)
	assert.Equal(t, QualityResponse{Value: 0, Description: "Complete blackout"}, resp[0])
	assert.Equal(t, QualityResponse{Value: 3, Description: "Correct response", Passing: true}, resp[3])
	assert.Equal(t, "Easy to recall", resp[5].Description)
}
