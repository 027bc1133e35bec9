package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

const cardColumns = `id, user_id, document_id, question, answer, category, difficulty,
	review_interval, repetitions, ease_factor, last_quality, due_date,
	last_reviewed_at, created_at, updated_at`

// cardRow is the sqlx mapping of the cards table.
type cardRow struct {
	ID             uuid.UUID     `db:"id"`
	UserID         uuid.UUID     `db:"user_id"`
	DocumentID     uuid.NullUUID `db:"document_id"`
	Question       string        `db:"question"`
	Answer         string        `db:"answer"`
	Category       string        `db:"category"`
	Difficulty     string        `db:"difficulty"`
	ReviewInterval int           `db:"review_interval"`
	Repetitions    int           `db:"repetitions"`
	EaseFactor     float64       `db:"ease_factor"`
	LastQuality    int           `db:"last_quality"`
	DueDate        time.Time     `db:"due_date"`
	LastReviewedAt sql.NullTime  `db:"last_reviewed_at"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (r cardRow) toDomain() *domain.Card {
	card := &domain.Card{
		ID:         r.ID,
		UserID:     r.UserID,
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   r.Category,
		Difficulty: domain.Difficulty(r.Difficulty),
		Review: domain.ReviewState{
			Interval:    r.ReviewInterval,
			Repetitions: r.Repetitions,
			EaseFactor:  r.EaseFactor,
			LastQuality: domain.Quality(r.LastQuality),
			DueDate:     r.DueDate.UTC(),
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.DocumentID.Valid {
		card.DocumentID = r.DocumentID.UUID
	}
	if r.LastReviewedAt.Valid {
		t := r.LastReviewedAt.Time.UTC()
		card.LastReviewedAt = &t
	}
	return card
}

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a SQLite CardStore. If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// queryCards runs a SELECT over cards and maps every row with sqlx.
func (s *CardStore) queryCards(ctx context.Context, where string, args ...any) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards `+where, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var dest []cardRow
	if err := sqlx.StructScan(rows, &dest); err != nil {
		return nil, fmt.Errorf("scan cards: %w", err)
	}

	cards := make([]*domain.Card, 0, len(dest))
	for _, r := range dest {
		cards = append(cards, r.toDomain())
	}
	return cards, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (s *CardStore) insert(ctx context.Context, card *domain.Card) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID,
		card.UserID,
		uuid.NullUUID{UUID: card.DocumentID, Valid: card.DocumentID != uuid.Nil},
		card.Question,
		card.Answer,
		card.Category,
		string(card.Difficulty),
		card.Review.Interval,
		card.Review.Repetitions,
		card.Review.EaseFactor,
		int(card.Review.LastQuality),
		card.Review.DueDate.UTC(),
		nullableTime(card.LastReviewedAt),
		card.CreatedAt.UTC(),
		card.UpdatedAt.UTC(),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}
	if err := s.insert(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return err
		}
	}
	for _, card := range cards {
		if err := s.insert(ctx, card); err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create card in batch",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	cards, err := s.queryCards(ctx, `WHERE id = ?`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}
	if len(cards) == 0 {
		return nil, store.ErrCardNotFound
	}
	return cards[0], nil
}

// GetByIDForUpdate implements store.CardStore.GetByIDForUpdate.
// SQLite serialises writers per database, so no row lock is needed.
func (s *CardStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.GetByID(ctx, id)
}

// ListByUser implements store.CardStore.ListByUser
func (s *CardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	cards, err := s.queryCards(ctx, `WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return cards, nil
}

// Update implements store.CardStore.Update
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET question = ?, answer = ?, category = ?, difficulty = ?, updated_at = ? WHERE id = ?`,
		card.Question, card.Answer, card.Category, string(card.Difficulty), card.UpdatedAt.UTC(), card.ID)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// UpdateReviewState implements store.CardStore.UpdateReviewState
func (s *CardStore) UpdateReviewState(
	ctx context.Context,
	cardID uuid.UUID,
	state domain.ReviewState,
	reviewedAt, updatedAt time.Time,
) error {
	if err := state.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET review_interval = ?, repetitions = ?, ease_factor = ?, last_quality = ?,
			due_date = ?, last_reviewed_at = ?, updated_at = ?
		WHERE id = ?`,
		state.Interval,
		state.Repetitions,
		state.EaseFactor,
		int(state.LastQuality),
		state.DueDate.UTC(),
		reviewedAt.UTC(),
		updatedAt.UTC(),
		cardID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}
