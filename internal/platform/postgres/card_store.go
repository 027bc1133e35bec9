package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// cardColumns is the column list shared by every card SELECT.
const cardColumns = `id, user_id, document_id, question, answer, category, difficulty,
	review_interval, repetitions, ease_factor, last_quality, due_date,
	last_reviewed_at, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		documentID uuid.NullUUID
		reviewedAt sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&documentID,
		&card.Question,
		&card.Answer,
		&card.Category,
		&card.Difficulty,
		&card.Review.Interval,
		&card.Review.Repetitions,
		&card.Review.EaseFactor,
		&card.Review.LastQuality,
		&card.Review.DueDate,
		&reviewedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if documentID.Valid {
		card.DocumentID = documentID.UUID
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		card.LastReviewedAt = &t
	}
	return &card, nil
}

// nullableDocument stores uuid.Nil as NULL.
func nullableDocument(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	if err := s.insert(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return err
	}

	log.Info("card created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// Cards are validated up front so that nothing is written when any card is invalid.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		log.Debug("no cards to create")
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}

	for _, card := range cards {
		if err := s.insert(ctx, card); err != nil {
			log.Error("failed to create card in batch",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()),
				slog.Int("batch_size", len(cards)))
			return err
		}
	}

	log.Info("cards created successfully", slog.Int("count", len(cards)))
	return nil
}

func (s *PostgresCardStore) insert(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var reviewedAt sql.NullTime
	if card.LastReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *card.LastReviewedAt, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		nullableDocument(card.DocumentID),
		card.Question,
		card.Answer,
		card.Category,
		card.Difficulty,
		card.Review.Interval,
		card.Review.Repetitions,
		card.Review.EaseFactor,
		card.Review.LastQuality,
		card.Review.DueDate,
		reviewedAt,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrCardExists, card.ID)
		}
		return MapError(err)
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.CardStore.GetByIDForUpdate
// It takes a row lock with SELECT ... FOR UPDATE, so it must run inside a transaction
// for the lock to outlive the statement.
func (s *PostgresCardStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresCardStore) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving card by ID",
		slog.String("card_id", id.String()),
		slog.Bool("for_update", forUpdate))

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// ListByUser implements store.CardStore.ListByUser
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating card rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("cards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// Update implements store.CardStore.Update
// Only content columns are written.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET question = $1, answer = $2, category = $3, difficulty = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Question,
		card.Answer,
		card.Category,
		card.Difficulty,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found for update", slog.String("card_id", card.ID.String()))
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card updated successfully", slog.String("card_id", card.ID.String()))
	return nil
}

// UpdateReviewState implements store.CardStore.UpdateReviewState
func (s *PostgresCardStore) UpdateReviewState(
	ctx context.Context,
	cardID uuid.UUID,
	state domain.ReviewState,
	reviewedAt, updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET review_interval = $1, repetitions = $2, ease_factor = $3, last_quality = $4,
			due_date = $5, last_reviewed_at = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.Interval,
		state.Repetitions,
		state.EaseFactor,
		state.LastQuality,
		state.DueDate,
		reviewedAt,
		updatedAt,
		cardID,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found for review update", slog.String("card_id", cardID.String()))
			return store.ErrCardNotFound
		}
		return err
	}

	log.Debug("review state updated",
		slog.String("card_id", cardID.String()),
		slog.Int("interval", state.Interval),
		slog.Int("repetitions", state.Repetitions),
		slog.Time("due_date", state.DueDate))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found for deletion", slog.String("card_id", id.String()))
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card deleted successfully", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
