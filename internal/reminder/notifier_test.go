package reminder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "You have 1 flashcard due for review.", reminder.Message(1))
	assert.Equal(t, "You have 4 flashcards due for review.", reminder.Message(4))
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	n := reminder.NewLogNotifier(log)

	userID := uuid.New()
	require.NoError(t, n.SendReminder(context.Background(), domain.DefaultLearnerSettings(userID), 3))

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "study reminder", entries[0]["msg"])
	assert.Equal(t, userID.String(), entries[0]["user_id"])
	assert.EqualValues(t, 3, entries[0]["due_cards"])
}

// fakeTelegram serves the two bot API methods the notifier needs.
type fakeTelegram struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"deck","username":"deck_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.sent = append(f.sent, map[string]string{
			"chat_id": r.PostForm.Get("chat_id"),
			"text":    r.PostForm.Get("text"),
		})
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 7, "date": 0, "chat": map[string]any{"id": 99, "type": "private"}},
		})
	default:
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestTelegramNotifier(t *testing.T) {
	t.Parallel()

	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	bot, err := reminder.NewTelegramBot("test-token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	log, buf := logger.NewTestLogger()
	n := reminder.NewTelegramNotifier(bot, reminder.NewLogNotifier(log), log)

	chatID := int64(99)
	withChat := &domain.LearnerSettings{UserID: uuid.New(), StudyReminders: true, TelegramChatID: &chatID}
	require.NoError(t, n.SendReminder(context.Background(), withChat, 2))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "99", fake.sent[0]["chat_id"])
	assert.Equal(t, "You have 2 flashcards due for review.", fake.sent[0]["text"])

	withoutChat := &domain.LearnerSettings{UserID: uuid.New(), StudyReminders: true}
	require.NoError(t, n.SendReminder(context.Background(), withoutChat, 1))
	assert.Len(t, fake.sent, 1, "learners without a chat use the fallback")
	assert.Contains(t, buf.String(), withoutChat.UserID.String())

	noFallback := reminder.NewTelegramNotifier(bot, nil, log)
	assert.ErrorIs(t, noFallback.SendReminder(context.Background(), withoutChat, 1), reminder.ErrNoChatID)
}
