package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card has no question text.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card has no answer text.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")
)

// Difficulty is the author-assigned difficulty label of a card.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty labels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseDifficulty converts a case-insensitive label into a Difficulty.
// An empty label yields DifficultyMedium.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DifficultyMedium, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", ErrInvalidDifficulty
	}
	return d, nil
}

// CardContent holds the learner-facing fields of a flashcard.
type CardContent struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
}

// Card represents a flashcard owned by a learner. DocumentID references the study
// document the card was generated from and may be nil for hand-written cards.
type Card struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	DocumentID     uuid.UUID   `json:"document_id"`
	Question       string      `json:"question"`
	Answer         string      `json:"answer"`
	Category       string      `json:"category,omitempty"`
	Difficulty     Difficulty  `json:"difficulty"`
	Review         ReviewState `json:"review"`
	LastReviewedAt *time.Time  `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewCard creates a new Card for the given learner with a fresh review state,
// so the card is due for review as soon as it exists.
// Returns an error if validation fails.
func NewCard(userID, documentID uuid.UUID, content CardContent, now time.Time) (*Card, error) {
	if content.Difficulty == "" {
		content.Difficulty = DifficultyMedium
	}

	now = now.UTC()
	card := &Card{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Question:   strings.TrimSpace(content.Question),
		Answer:     strings.TrimSpace(content.Answer),
		Category:   strings.TrimSpace(content.Category),
		Difficulty: content.Difficulty,
		Review:     NewReviewState(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}

	if !c.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}

	return c.Review.Validate()
}

// Content returns the learner-facing fields of the card.
func (c *Card) Content() CardContent {
	return CardContent{
		Question:   c.Question,
		Answer:     c.Answer,
		Category:   c.Category,
		Difficulty: c.Difficulty,
	}
}

// UpdateContent replaces the card's question, answer, category and difficulty.
// The review state is left untouched. On validation failure the card is restored.
func (c *Card) UpdateContent(content CardContent, now time.Time) error {
	if content.Difficulty == "" {
		content.Difficulty = c.Difficulty
	}

	orig := c.Content()
	c.Question = strings.TrimSpace(content.Question)
	c.Answer = strings.TrimSpace(content.Answer)
	c.Category = strings.TrimSpace(content.Category)
	c.Difficulty = content.Difficulty

	if err := c.Validate(); err != nil {
		c.Question, c.Answer, c.Category, c.Difficulty = orig.Question, orig.Answer, orig.Category, orig.Difficulty
		return err
	}

	c.UpdatedAt = now.UTC()
	return nil
}

// OwnedBy reports whether the card belongs to the given learner.
func (c *Card) OwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}
