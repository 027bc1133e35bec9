package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
)

// CardContentRequest is the learner-facing part of a card in request bodies.
type CardContentRequest struct {
	Question   string `json:"question"             validate:"required"`
	Answer     string `json:"answer"               validate:"required"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// toDomain converts the request into domain.CardContent.
func (c CardContentRequest) toDomain() domain.CardContent {
	return domain.CardContent{
		Question:   c.Question,
		Answer:     c.Answer,
		Category:   c.Category,
		Difficulty: domain.Difficulty(c.Difficulty),
	}
}

// CreateCardsRequest defines the payload for creating cards.
// DocumentID may be omitted for hand-written cards.
type CreateCardsRequest struct {
	DocumentID *uuid.UUID           `json:"document_id,omitempty"`
	Cards      []CardContentRequest `json:"cards"                 validate:"required,min=1,dive"`
}

// ReviewRequest defines the payload for submitting a review.
// Quality is a pointer so that a missing field is distinguishable from 0.
type ReviewRequest struct {
	Quality *int `json:"quality" validate:"required,gte=0,lte=5"`
}

// PostponeRequest defines the payload for postponing a card.
type PostponeRequest struct {
	Days int `json:"days" validate:"gte=1"`
}

// SettingsRequest defines the payload for updating reminder settings.
type SettingsRequest struct {
	StudyReminders bool   `json:"study_reminders"`
	ReminderHour   *int   `json:"reminder_hour,omitempty"    validate:"omitempty,gte=0,lte=23"`
	TelegramChatID *int64 `json:"telegram_chat_id,omitempty"`
}

// ReviewStateResponse is the scheduling state of a card.
type ReviewStateResponse struct {
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	EaseFactor  float64   `json:"ease_factor"`
	LastQuality int       `json:"last_quality"`
	DueDate     time.Time `json:"due_date"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	DocumentID     string              `json:"document_id,omitempty"`
	Question       string              `json:"question"`
	Answer         string              `json:"answer"`
	Category       string              `json:"category,omitempty"`
	Difficulty     string              `json:"difficulty"`
	Review         ReviewStateResponse `json:"review"`
	NextReviewText string              `json:"next_review_text"`
	LastReviewedAt *time.Time          `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ProgressResponse represents a learner's progress on one document.
type ProgressResponse struct {
	DocumentID         string     `json:"document_id,omitempty"`
	FlashcardsReviewed int        `json:"flashcards_reviewed"`
	RetentionRate      float64    `json:"retention_rate"`
	StudyTimeMinutes   int        `json:"study_time_minutes"`
	LastStudiedAt      *time.Time `json:"last_studied_at,omitempty"`
}

// SettingsResponse represents a learner's reminder settings.
type SettingsResponse struct {
	UserID         string     `json:"user_id"`
	StudyReminders bool       `json:"study_reminders"`
	ReminderHour   *int       `json:"reminder_hour,omitempty"`
	TelegramChatID *int64     `json:"telegram_chat_id,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// QualityResponse describes one step of the rating scale.
type QualityResponse struct {
	Value       int    `json:"value"`
	Description string `json:"description"`
	Passing     bool   `json:"passing"`
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card, now time.Time) CardResponse {
	resp := CardResponse{
		ID:         card.ID.String(),
		UserID:     card.UserID.String(),
		Question:   card.Question,
		Answer:     card.Answer,
		Category:   card.Category,
		Difficulty: string(card.Difficulty),
		Review: ReviewStateResponse{
			Interval:    card.Review.Interval,
			Repetitions: card.Review.Repetitions,
			EaseFactor:  card.Review.EaseFactor,
			LastQuality: int(card.Review.LastQuality),
			DueDate:     card.Review.DueDate,
		},
		NextReviewText: srs.NextReviewText(card.Review.DueDate, now),
		LastReviewedAt: card.LastReviewedAt,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
	if card.DocumentID != uuid.Nil {
		resp.DocumentID = card.DocumentID.String()
	}
	return resp
}

func cardsToResponse(cards []*domain.Card, now time.Time) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c, now))
	}
	return out
}

func progressToResponse(p *domain.StudyProgress) ProgressResponse {
	resp := ProgressResponse{
		FlashcardsReviewed: p.FlashcardsReviewed,
		RetentionRate:      p.RetentionRate,
		StudyTimeMinutes:   p.StudyTimeMinutes,
	}
	if p.DocumentID != uuid.Nil {
		resp.DocumentID = p.DocumentID.String()
	}
	if !p.LastStudiedAt.IsZero() {
		studied := p.LastStudiedAt
		resp.LastStudiedAt = &studied
	}
	return resp
}

func settingsToResponse(s *domain.LearnerSettings) SettingsResponse {
	resp := SettingsResponse{
		UserID:         s.UserID.String(),
		StudyReminders: s.StudyReminders,
		ReminderHour:   s.ReminderHour,
		TelegramChatID: s.TelegramChatID,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func qualitiesResponse() []QualityResponse {
	qualities := domain.Qualities()
	out := make([]QualityResponse, 0, len(qualities))
	for _, q := range qualities {
		out = append(out, QualityResponse{Value: int(q), Description: q.Description(), Passing: q.Passing()})
	}
	return out
}
