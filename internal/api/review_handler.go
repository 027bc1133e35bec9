package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/service/card_review"
)

// ReviewHandler handles study session HTTP requests.
type ReviewHandler struct {
	reviewService card_review.CardReviewService
	clock         srs.Clock
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(
	reviewService card_review.CardReviewService,
	clock srs.Clock,
	logger *slog.Logger,
) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}

	return &ReviewHandler{
		reviewService: reviewService,
		clock:         clock,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// ListDue handles GET /due requests. The optional limit query parameter caps
// the number of cards; zero or absent returns the whole due set.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid limit")
		return
	}

	cards, err := h.reviewService.ListDue(r.Context(), learnerID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards, h.clock.Now()))
}

// GetNextCard handles GET /due/next requests.
// It responds 204 when nothing is due.
func (h *ReviewHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	card, err := h.reviewService.GetNextCard(r.Context(), learnerID)
	if errors.Is(err, card_review.ErrNoCardsDue) {
		log.Debug("no cards due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next review card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, h.clock.Now()))
}

// SubmitReview handles POST /cards/{id}/review requests. It applies the
// learner's 0..5 rating and returns the card with its new review state.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, cardID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	quality := domain.Quality(*req.Quality)

	card, err := h.reviewService.SubmitAnswer(r.Context(), learnerID, cardID,
		card_review.ReviewAnswer{Quality: quality})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", int(quality)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, h.clock.Now()))
}

// PostponeCard handles POST /cards/{id}/postpone requests.
func (h *ReviewHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, cardID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PostponeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.reviewService.PostponeCard(r.Context(), learnerID, cardID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, h.clock.Now()))
}

// GetProgress handles GET /progress requests.
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	progress, err := h.reviewService.GetProgress(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load study progress")
		return
	}

	out := make([]ProgressResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, progressToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// ListQualities handles GET /qualities requests.
func ListQualities(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, qualitiesResponse())
}
