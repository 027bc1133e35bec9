package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/service/card_review"
	"github.com/phrazzld/studydeck/internal/store"
)

// invalidInput lists the errors that describe bad client input.
var invalidInput = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidQuality,
	domain.ErrInvalidDifficulty,
	domain.ErrInvalidReminderHour,
	domain.ErrCardQuestionEmpty,
	domain.ErrCardAnswerEmpty,
	store.ErrInvalidEntity,
	card_review.ErrInvalidPostpone,
	service.ErrNoCards,
}

func isInvalidInput(err error) bool {
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authorization errors
	case errors.Is(err, card_review.ErrCardNotOwned),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Special cases
	case errors.Is(err, card_review.ErrNoCardsDue):
		return http.StatusNoContent

	case isInvalidInput(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, card_review.ErrCardNotOwned),
		errors.Is(err, service.ErrNotOwned):
		return "You do not own this card"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Study progress not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, domain.ErrInvalidQuality):
		return fmt.Sprintf("Invalid quality: must be between %d and %d", domain.MinQuality, domain.MaxQuality)

	case errors.Is(err, card_review.ErrInvalidPostpone):
		return "Invalid days: must be at least 1"

	case errors.Is(err, domain.ErrInvalidDifficulty):
		return "Invalid difficulty: must be easy, medium or hard"

	case errors.Is(err, domain.ErrCardQuestionEmpty):
		return "Invalid question: required field"

	case errors.Is(err, domain.ErrCardAnswerEmpty):
		return "Invalid answer: required field"

	case errors.Is(err, domain.ErrInvalidReminderHour):
		return "Invalid reminder hour: must be between 0 and 23"

	case errors.Is(err, service.ErrNoCards):
		return "At least one card is required"

	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		var reviewErr *card_review.ServiceError
		if errors.As(err, &reviewErr) {
			switch reviewErr.Operation {
			case card_review.OpSubmitAnswer:
				return "Failed to submit answer"
			case card_review.OpGetNextCard:
				return "Failed to get next review card"
			case card_review.OpPostponeCard:
				return "Failed to postpone card"
			}
		}
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status code and safe message for err. A non-empty
// message overrides the safe message derived from the error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}
