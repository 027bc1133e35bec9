package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/service"
)

// CardHandler handles card management HTTP requests.
type CardHandler struct {
	cardService service.CardService
	clock       srs.Clock
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService service.CardService, clock srs.Clock, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}

	return &CardHandler{
		cardService: cardService,
		clock:       clock,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCards handles POST /cards requests.
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	var req CreateCardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	documentID := uuid.Nil
	if req.DocumentID != nil {
		documentID = *req.DocumentID
	}

	contents := make([]domain.CardContent, 0, len(req.Cards))
	for _, c := range req.Cards {
		contents = append(contents, c.toDomain())
	}

	cards, err := h.cardService.CreateCards(r.Context(), learnerID, documentID, contents)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardsToResponse(cards, h.clock.Now()))
}

// ListCards handles GET /cards requests.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerID(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards, h.clock.Now()))
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, cardID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), learnerID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, h.clock.Now()))
}

// UpdateCard handles PUT /cards/{id} requests. Only the content changes;
// the review state is preserved.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, cardID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardContentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.UpdateCardContent(r.Context(), learnerID, cardID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card updated", slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card, h.clock.Now()))
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, cardID, ok := handleLearnerAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), learnerID, cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card deleted", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}
