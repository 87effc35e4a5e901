package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augustinus/pkg/router"
	"augustinus/pkg/sessions"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, j.Record(ctx, Entry{Kind: "session_spawn", Pane: "general", SessionID: "s1", Program: "/bin/sh", CreatedAt: base}))
	require.NoError(t, j.Record(ctx, Entry{Kind: "session_exit", Pane: "general", SessionID: "s1", Detail: "exit status 1", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, j.Record(ctx, Entry{Kind: "session_spawn", Pane: "agents", CreatedAt: base.Add(2 * time.Minute)}))

	got, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "agents", got[0].Pane)
	assert.Empty(t, got[0].SessionID)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	assert.Equal(t, "session_exit", got[1].Kind)
	assert.Equal(t, "exit status 1", got[1].Detail)
	assert.Greater(t, got[0].ID, got[1].ID)
}

func TestRecordStampsTime(t *testing.T) {
	j := openTest(t)
	fixed := time.Date(2026, 7, 4, 12, 0, 0, 123000000, time.UTC)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Record(context.Background(), Entry{Kind: "session_spawn", Pane: "general"}))
	got, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.Equal(fixed))
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, Entry{Kind: "session_spawn", Pane: "general"}))
	require.NoError(t, j.Close())

	j, err = Open(ctx, path)
	require.NoError(t, err)
	defer j.Close()
	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecorderAdaptsSessionEvents(t *testing.T) {
	j := openTest(t)
	rec := j.Recorder()

	require.NoError(t, rec.Record(sessions.Event{
		Kind:      sessions.EventFallback,
		Pane:      router.Agents,
		SessionID: "abc",
		Program:   "/bin/sh",
		Detail:    "codex",
	}))

	got, err := j.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Entry{
		ID:        got[0].ID,
		Kind:      "session_fallback",
		Pane:      "agents",
		SessionID: "abc",
		Program:   "/bin/sh",
		Detail:    "codex",
		CreatedAt: got[0].CreatedAt,
	}, got[0])
}

func TestRecentEmpty(t *testing.T) {
	got, err := openTest(t).Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenSetsPragmas(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()

	var mode string
	require.NoError(t, j.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, j.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}
