package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/platform/logger"
)

// LearnerParam is the chi URL parameter holding the learner ID.
const LearnerParam = "learnerID"

// Learner reads the learner ID from the route and stores it in the request
// context. Requests with a missing or malformed ID are rejected with 400.
func Learner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, LearnerParam)
		learnerID, err := uuid.Parse(raw)
		if err != nil || learnerID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid learner ID")
			return
		}

		ctx := shared.WithLearnerID(r.Context(), learnerID)
		log := logger.FromContextOrDefault(ctx, slog.Default()).
			With(slog.String("user_id", learnerID.String()))
		ctx = logger.WithContext(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
