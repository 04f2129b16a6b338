package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/rohankatakam/relver/internal/logging"
	"github.com/rohankatakam/relver/internal/storage"
	"github.com/rohankatakam/relver/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_RecordBump(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".relver", "history.jsonl")
	log := NewLog(path, "test@example.com")
	at := time.Date(2025, 8, 17, 1, 4, 0, 0, time.UTC)

	err := log.RecordBump(context.Background(), ledger.Bump{
		Kind:         version.KindBuild,
		From:         "0.01.012.000",
		To:           "0.01.012.001",
		Changelog:    "fixed typo",
		ReleaseTitle: "Build Update - fixed typo",
		At:           at,
	})
	require.NoError(t, err)

	err = log.RecordBump(context.Background(), ledger.Bump{
		Kind:         version.KindUpdate,
		From:         "0.01.012.001",
		To:           "0.01.013.000",
		Consolidated: true,
		At:           at.Add(time.Hour),
	})
	require.NoError(t, err)

	events, skipped, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, events, 2)

	first := events[0]
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, "build", first.Kind)
	assert.Equal(t, "0.01.012.001", first.To)
	assert.Equal(t, "test@example.com", first.Actor)
	assert.True(t, first.Timestamp.Equal(at))

	assert.True(t, events[1].Consolidated)
	assert.NotEqual(t, first.ID, events[1].ID)
}

func TestLog_ReadAllMissingFile(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "missing.jsonl"), "")
	events, skipped, err := log.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, skipped)
}

func TestLog_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"id":"a","kind":"build","from":"1","to":"2"}
not json

{"id":"b","kind":"major","from":"2","to":"3"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	events, skipped, err := NewLog(path, "").ReadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[1].ID)
}

func TestLog_AsLedgerRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	log := NewLog(path, "ci")
	l := ledger.New(storage.NewMemoryStore(nil), logging.Discard(), ledger.WithRecorder(log))

	_, err := l.AutoIncrementBuild(context.Background(), "nightly")
	require.NoError(t, err)

	events, _, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "0.01.012.001", events[0].To)
	assert.Equal(t, "Build Update - nightly", events[0].ReleaseTitle)
}
