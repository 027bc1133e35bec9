package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = "2024-03-04T09:00:00Z"

// deck runs one CLI invocation against dbPath and returns its stdout.
func deck(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--db", dbPath}, args...))

	err := root.Execute()
	return stdout.String(), err
}

func newDeckDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "deck.db")
}

func addCard(t *testing.T, dbPath, learner string) string {
	t.Helper()

	out, err := deck(t, dbPath, "add", "--learner", learner, "--now", testNow,
		"-q", "capital of France?", "-a", "Paris")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "added card "), out)

	id := strings.TrimSpace(strings.TrimPrefix(out, "added card "))
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	return id
}

func TestReviewFlow(t *testing.T) {
	t.Parallel()
	db := newDeckDB(t)
	learner := uuid.NewString()
	cardID := addCard(t, db, learner)

	out, err := deck(t, db, "due", "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Contains(t, out, cardID)
	assert.Contains(t, out, "Due today")
	assert.Contains(t, out, "1 due")

	out, err = deck(t, db, "review", cardID, "4", "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Equal(t, "interval 1 days, ease 2.50, repetitions 1: Due tomorrow\n", out)

	out, err = deck(t, db, "due", "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Equal(t, "no cards due\n", out)

	out, err = deck(t, db, "due", "--learner", learner, "--now", "2024-03-06T10:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, cardID)
	assert.Contains(t, out, "Overdue")

	out, err = deck(t, db, "progress", "--learner", learner)
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
}

func TestReview_Errors(t *testing.T) {
	t.Parallel()
	db := newDeckDB(t)
	learner := uuid.NewString()
	cardID := addCard(t, db, learner)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"quality out of range", []string{"review", cardID, "6", "--learner", learner}, "invalid answer"},
		{"quality not a number", []string{"review", cardID, "good", "--learner", learner}, "invalid quality"},
		{"bad card id", []string{"review", "nope", "3", "--learner", learner}, "invalid card ID"},
		{"other learner", []string{"review", cardID, "3", "--learner", uuid.NewString()}, "not owned"},
		{"missing learner", []string{"due"}, "no learner"},
		{"bad clock", []string{"due", "--learner", learner, "--now", "yesterday"}, "invalid --now"},
		{"postpone zero days", []string{"postpone", cardID, "0", "--learner", learner}, "postpone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deck(t, db, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostpone(t *testing.T) {
	t.Parallel()
	db := newDeckDB(t)
	learner := uuid.NewString()
	cardID := addCard(t, db, learner)

	out, err := deck(t, db, "postpone", cardID, "3", "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Equal(t, "postponed: Due in 3 days\n", out)
}

func TestImport(t *testing.T) {
	t.Parallel()
	db := newDeckDB(t)
	learner := uuid.NewString()

	path := filepath.Join(t.TempDir(), "deck.csv")
	csv := "question,answer,category,difficulty\n" +
		"2+2?,4,math,easy\n" +
		"missing answer,,,\n" +
		"H2O?,water,chemistry,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := deck(t, db, "import", path, "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 cards (3 rows processed, 1 skipped)\n", out)

	out, err = deck(t, db, "due", "--learner", learner, "--now", testNow)
	require.NoError(t, err)
	assert.Contains(t, out, "2+2?")
	assert.Contains(t, out, "H2O?")
}

func TestImport_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deck.txt")
	require.NoError(t, os.WriteFile(path, []byte("q,a\n"), 0o600))

	_, err := deck(t, newDeckDB(t), "import", path, "--learner", uuid.NewString())
	assert.ErrorContains(t, err, "unsupported import format")
}

func TestMigrate(t *testing.T) {
	t.Parallel()
	db := newDeckDB(t)

	out, err := deck(t, db, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrate up: ok\n", out)

	_, err = deck(t, db, "migrate", "sideways")
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestQualities(t *testing.T) {
	t.Parallel()

	out, err := deck(t, newDeckDB(t), "qualities")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "0  "))
	assert.True(t, strings.HasPrefix(lines[5], "5 + "))
}
