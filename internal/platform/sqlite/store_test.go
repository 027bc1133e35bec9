package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/sqlite"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db.DB, "up"))
	return db
}

func newCard(t *testing.T, userID uuid.UUID, question string, created time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(userID, uuid.Nil, domain.CardContent{
		Question: question,
		Answer:   "answer to " + question,
		Category: "test",
	}, created)
	require.NoError(t, err)
	return card
}

func TestCardStore_CRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cards := sqlite.NewCardStore(db.DB, nil)
	userID := uuid.New()

	card := newCard(t, userID, "capital of France", baseTime)
	card.DocumentID = uuid.New()
	require.NoError(t, cards.Create(ctx, card))

	got, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, card.DocumentID, got.DocumentID)
	assert.Equal(t, card.Question, got.Question)
	assert.Equal(t, domain.DifficultyMedium, got.Difficulty)
	assert.True(t, got.Review.DueDate.Equal(baseTime))
	assert.Nil(t, got.LastReviewedAt)

	// Duplicate IDs are rejected
	err = cards.Create(ctx, card)
	assert.True(t, store.IsDuplicateError(err), "got %v", err)

	require.NoError(t, card.UpdateContent(domain.CardContent{Question: "capital of Spain", Answer: "Madrid"}, baseTime.Add(time.Hour)))
	require.NoError(t, cards.Update(ctx, card))
	got, err = cards.GetByIDForUpdate(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "capital of Spain", got.Question)
	assert.Equal(t, "Madrid", got.Answer)

	require.NoError(t, cards.Delete(ctx, card.ID))
	_, err = cards.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.ErrorIs(t, cards.Delete(ctx, card.ID), store.ErrCardNotFound)
	assert.ErrorIs(t, cards.Update(ctx, card), store.ErrCardNotFound)
}

func TestCardStore_ReviewStateAndListing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cards := sqlite.NewCardStore(db.DB, nil)
	userID := uuid.New()

	first := newCard(t, userID, "one", baseTime)
	second := newCard(t, userID, "two", baseTime.Add(time.Minute))
	other := newCard(t, uuid.New(), "someone else", baseTime)
	require.NoError(t, cards.CreateMultiple(ctx, []*domain.Card{second, first, other}))

	listed, err := cards.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	reviewedAt := baseTime.Add(2 * time.Hour)
	state := domain.ReviewState{
		Interval:    6,
		Repetitions: 2,
		EaseFactor:  2.36,
		LastQuality: domain.QualityCorrect,
		DueDate:     reviewedAt.AddDate(0, 0, 6),
	}
	updatedAt := reviewedAt.Add(time.Minute)
	require.NoError(t, cards.UpdateReviewState(ctx, first.ID, state, reviewedAt, updatedAt))

	got, err := cards.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, state.Interval, got.Review.Interval)
	assert.Equal(t, state.Repetitions, got.Review.Repetitions)
	assert.InDelta(t, state.EaseFactor, got.Review.EaseFactor, 1e-9)
	assert.Equal(t, state.LastQuality, got.Review.LastQuality)
	assert.True(t, got.Review.DueDate.Equal(state.DueDate))
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, got.LastReviewedAt.Equal(reviewedAt))
	assert.True(t, got.UpdatedAt.Equal(updatedAt))

	err = cards.UpdateReviewState(ctx, uuid.New(), state, reviewedAt, updatedAt)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	bad := state
	bad.Repetitions = -1
	assert.ErrorIs(t, cards.UpdateReviewState(ctx, first.ID, bad, reviewedAt, updatedAt), domain.ErrInvalidReviewState)

	empty, err := cards.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCardStore_CreateMultipleRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cards := sqlite.NewCardStore(db.DB, nil)
	userID := uuid.New()

	existing := newCard(t, userID, "existing", baseTime)
	require.NoError(t, cards.Create(ctx, existing))

	fresh := newCard(t, userID, "fresh", baseTime)
	err := store.RunInTransaction(ctx, db.DB, func(ctx context.Context, tx *sql.Tx) error {
		return cards.WithTx(tx).CreateMultiple(ctx, []*domain.Card{fresh, existing})
	})
	require.Error(t, err)

	_, err = cards.GetByID(ctx, fresh.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound, "batch insert must be atomic")
}

func TestProgressStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	progress := sqlite.NewProgressStore(db.DB, nil)
	userID := uuid.New()

	_, err := progress.Get(ctx, userID, uuid.Nil)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)

	p, err := domain.NewStudyProgress(userID, uuid.Nil, baseTime)
	require.NoError(t, err)
	updated := p.WithReview(domain.QualityPerfect, baseTime.Add(time.Minute))
	require.NoError(t, progress.Upsert(ctx, &updated))

	updated = updated.WithReview(domain.QualityBlackout, baseTime.Add(2*time.Minute))
	require.NoError(t, progress.Upsert(ctx, &updated))

	got, err := progress.Get(ctx, userID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.FlashcardsReviewed)
	assert.Equal(t, 0.0, got.RetentionRate)
	assert.True(t, got.LastStudiedAt.Equal(baseTime.Add(2*time.Minute)))

	doc, err := domain.NewStudyProgress(userID, uuid.New(), baseTime)
	require.NoError(t, err)
	require.NoError(t, progress.Upsert(ctx, doc))

	all, err := progress.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uuid.Nil, all[0].DocumentID, "most recently studied first")
}

func TestSettingsStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings := sqlite.NewSettingsStore(db.DB, nil)

	quiet := domain.DefaultLearnerSettings(uuid.New())
	require.NoError(t, settings.Upsert(ctx, quiet))

	hour := 8
	chat := int64(424242)
	keen := domain.DefaultLearnerSettings(uuid.New())
	keen.StudyReminders = true
	keen.ReminderHour = &hour
	keen.TelegramChatID = &chat
	keen.UpdatedAt = baseTime
	require.NoError(t, settings.Upsert(ctx, keen))

	got, err := settings.Get(ctx, keen.UserID)
	require.NoError(t, err)
	assert.True(t, got.StudyReminders)
	require.NotNil(t, got.ReminderHour)
	assert.Equal(t, 8, *got.ReminderHour)
	require.NotNil(t, got.TelegramChatID)
	assert.Equal(t, chat, *got.TelegramChatID)

	enabled, err := settings.ListReminderEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, keen.UserID, enabled[0].UserID)

	_, err = settings.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrSettingsNotFound)

	bad := 30
	keen.ReminderHour = &bad
	assert.True(t, errors.Is(settings.Upsert(ctx, keen), domain.ErrInvalidReminderHour))
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, sqlite.Migrate(ctx, db.DB, "reset"))

	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'cards'`)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Error(t, sqlite.Migrate(ctx, db.DB, "sideways"))
}
