package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohankatakam/relver/internal/ledger"
)

// BumpEvent is one line of the bump history log.
type BumpEvent struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Changelog    string    `json:"changelog"`
	ReleaseTitle string    `json:"release_title,omitempty"`
	Consolidated bool      `json:"consolidated,omitempty"`
	Actor        string    `json:"actor,omitempty"`
}

// Log appends bump events to a JSONL file, e.g. .relver/history.jsonl.
// It implements ledger.Recorder.
type Log struct {
	path  string
	actor string
	mu    sync.Mutex
}

// NewLog creates a history log at path. actor is recorded on every event
// (typically the git author or $USER).
func NewLog(path, actor string) *Log {
	return &Log{path: path, actor: actor}
}

// Path returns the log location.
func (l *Log) Path() string {
	return l.path
}

// RecordBump appends one event for a completed bump.
func (l *Log) RecordBump(ctx context.Context, bump ledger.Bump) error {
	return l.Append(BumpEvent{
		ID:           uuid.NewString(),
		Timestamp:    bump.At,
		Kind:         string(bump.Kind),
		From:         bump.From,
		To:           bump.To,
		Changelog:    bump.Changelog,
		ReleaseTitle: bump.ReleaseTitle,
		Consolidated: bump.Consolidated,
		Actor:        l.actor,
	})
}

// Append writes event as a single JSON line.
func (l *Log) Append(event BumpEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Create directory if needed
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	// Open file in append mode (create if doesn't exist)
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(event)
}

// ReadAll returns every event in file order. A missing log is empty.
// Lines that fail to parse are skipped and counted in skipped.
func (l *Log) ReadAll() (events []BumpEvent, skipped int, err error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event BumpEvent
		if err := json.Unmarshal(line, &event); err != nil {
			skipped++
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return events, skipped, fmt.Errorf("read history: %w", err)
	}
	return events, skipped, nil
}
