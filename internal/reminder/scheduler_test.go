package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/domain/srs"
	"github.com/phrazzld/studydeck/internal/platform/sqlite"
	"github.com/phrazzld/studydeck/internal/reminder"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runAt = time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	sent    map[uuid.UUID]int
	failFor uuid.UUID
}

func (n *recordingNotifier) SendReminder(_ context.Context, s *domain.LearnerSettings, due int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if s.UserID == n.failFor {
		return errors.New("delivery failed")
	}
	if n.sent == nil {
		n.sent = make(map[uuid.UUID]int)
	}
	n.sent[s.UserID] = due
	return nil
}

type fixture struct {
	cards    store.CardStore
	settings store.SettingsStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db.DB, "up"))

	return &fixture{
		cards:    sqlite.NewCardStore(db.DB, nil),
		settings: sqlite.NewSettingsStore(db.DB, nil),
	}
}

func (f *fixture) learner(t *testing.T, reminders bool, hour *int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.settings.Upsert(context.Background(), &domain.LearnerSettings{
		UserID:         id,
		StudyReminders: reminders,
		ReminderHour:   hour,
		UpdatedAt:      runAt,
	}))
	return id
}

func (f *fixture) card(t *testing.T, userID uuid.UUID, due time.Time) {
	t.Helper()
	card, err := domain.NewCard(userID, uuid.Nil, domain.CardContent{Question: "q", Answer: "a"}, runAt.Add(-72*time.Hour))
	require.NoError(t, err)
	card.Review.DueDate = due
	require.NoError(t, f.cards.Create(context.Background(), card))
}

func hour(h int) *int { return &h }

func TestScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	atEight := f.learner(t, true, hour(8))
	f.card(t, atEight, runAt.Add(-time.Hour))
	f.card(t, atEight, runAt)
	f.card(t, atEight, runAt.Add(time.Hour))

	atNine := f.learner(t, true, hour(9))
	f.card(t, atNine, runAt.Add(-time.Hour))

	nothingDue := f.learner(t, true, nil)
	f.card(t, nothingDue, runAt.Add(48*time.Hour))

	optedOut := f.learner(t, false, nil)
	f.card(t, optedOut, runAt.Add(-time.Hour))

	failing := f.learner(t, true, nil)
	f.card(t, failing, runAt.Add(-time.Hour))

	notifier := &recordingNotifier{failFor: failing}
	s, err := reminder.NewScheduler("", f.settings, f.cards, notifier, srs.NewFixedClock(runAt), nil)
	require.NoError(t, err)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reminder.RunReport{Checked: 3, Sent: 1, Failed: 1}, report)
	assert.Equal(t, map[uuid.UUID]int{atEight: 2}, notifier.sent)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := reminder.NewScheduler("", nil, f.cards, &recordingNotifier{}, nil, nil)
	require.Error(t, err)

	bad, err := reminder.NewScheduler("not a cron", f.settings, f.cards, &recordingNotifier{}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, bad.Start(context.Background()))

	good, err := reminder.NewScheduler(reminder.DefaultCron, f.settings, f.cards, &recordingNotifier{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, good.Start(context.Background()))
	good.Stop()
}
