// Package ledger owns the persisted version document: the current version,
// the changelog, and the release records. Every operation is a complete
// read-modify-write cycle against an injected DocumentStore.
package ledger

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/storage"
	"github.com/rohankatakam/relver/internal/version"
	"github.com/sirupsen/logrus"
)

// ReleaseInfo is the optional release metadata attached to a version bump.
type ReleaseInfo struct {
	Title                   string   `json:"title" yaml:"title"`
	Summary                 string   `json:"summary" yaml:"summary"`
	Changes                 []string `json:"changes" yaml:"changes"`
	Technical               []string `json:"technical,omitempty" yaml:"technical,omitempty"`
	ConsolidateWithPrevious bool     `json:"consolidateWithPrevious,omitempty" yaml:"consolidate_with_previous,omitempty"`
}

// Bump describes a completed version increment. Recorders receive one per
// successful Update.
type Bump struct {
	Kind         version.Kind
	From         string
	To           string
	Changelog    string
	ReleaseTitle string
	Consolidated bool
	At           time.Time
}

// Recorder observes successful bumps, e.g. to keep an audit trail.
type Recorder interface {
	RecordBump(ctx context.Context, bump Bump) error
}

// Ledger is the version and release service.
type Ledger struct {
	store    storage.DocumentStore
	logger   *logrus.Logger
	now      func() time.Time
	recorder Recorder

	// mu serializes read-modify-write cycles within this process.
	// Cross-process safety comes from Transactional stores.
	mu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for release dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRecorder attaches a bump observer.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// New creates a ledger over store.
func New(store storage.DocumentStore, logger *logrus.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and migrates the current document. Missing, unreadable or
// malformed state is not an error: the seed document is returned instead.
func (l *Ledger) Load(ctx context.Context) *Document {
	data, err := l.store.Read(ctx)
	return l.decode(data, err)
}

// Current is the outward query for presentation layers. It never writes.
func (l *Ledger) Current(ctx context.Context) *Document {
	return l.Load(ctx)
}

// History returns every release, newest version first.
func (l *Ledger) History(ctx context.Context) []*Release {
	return l.Load(ctx).SortedReleases()
}

// Update bumps the version by kind, records the changelog entry and, when
// info is given, creates or consolidates a release. A failed write is
// returned as a fatal storage error and nothing is reported as bumped.
func (l *Ledger) Update(ctx context.Context, kind version.Kind, changelogEntry string, info *ReleaseInfo) (*Document, error) {
	if _, err := version.ParseKind(string(kind)); err != nil {
		return nil, errors.ValidationErrorf("%v", err)
	}

	var bump Bump
	doc, err := l.mutate(ctx, func(doc *Document) error {
		from := doc.Identifier()
		next, err := version.Increment(from, kind)
		if err != nil {
			return errors.ValidationErrorf("%v", err)
		}
		now := l.now().UTC()

		doc.SetVersion(next)
		doc.Changelog[next.String()] = changelogEntry

		bump = Bump{
			Kind:      kind,
			From:      from.String(),
			To:        next.String(),
			Changelog: changelogEntry,
			At:        now,
		}

		if info == nil {
			return nil
		}
		bump.ReleaseTitle = info.Title

		if info.ConsolidateWithPrevious && len(doc.Releases) > 0 {
			key, latest := latestRelease(doc.Releases)
			if latest.Title == info.Title {
				consolidate(doc, key, latest, next.String(), now, info)
				bump.Consolidated = true
				l.logger.WithFields(logrus.Fields{
					"from_key": key,
					"to_key":   next.String(),
					"title":    info.Title,
				}).Debug("Consolidated release")
				return nil
			}
			l.logger.WithFields(logrus.Fields{
				"latest_title": latest.Title,
				"title":        info.Title,
			}).Debug("Title mismatch, creating separate release")
		}

		release := &Release{
			Version:   next.String(),
			Date:      now.Format(DateLayout),
			Title:     info.Title,
			Type:      version.ReleaseType(kind),
			Summary:   info.Summary,
			Changes:   copyStrings(info.Changes),
			Technical: append([]string(nil), info.Technical...),
		}
		release.Rescore()
		doc.Releases[next.String()] = release
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"kind": kind,
		"from": bump.From,
		"to":   bump.To,
	}).Info("Version bumped")

	if l.recorder != nil {
		if err := l.recorder.RecordBump(ctx, bump); err != nil {
			l.logger.WithError(err).Warn("Failed to record bump")
		}
	}

	return doc, nil
}

// AddChangelogEntry sets the changelog text for the current version
// without changing the version.
func (l *Ledger) AddChangelogEntry(ctx context.Context, entry string) (*Document, error) {
	return l.mutate(ctx, func(doc *Document) error {
		doc.Changelog[doc.Version] = entry
		return nil
	})
}

// AddRelease stores a fully formed release at its own version key. The
// caller's impact score is kept as given.
func (l *Ledger) AddRelease(ctx context.Context, release Release) (*Document, error) {
	if release.Version == "" {
		return nil, errors.ValidationError("release version is required")
	}
	return l.mutate(ctx, func(doc *Document) error {
		r := release
		doc.Releases[version.Canonicalize(r.Version)] = &r
		return nil
	})
}

// Migrate rewrites the stored document in its current shape. It reports
// the legacy keys found before migration.
func (l *Ledger) Migrate(ctx context.Context) ([]string, error) {
	var legacy []string
	_, err := l.mutate(ctx, func(doc *Document) error {
		legacy = doc.legacy
		return nil
	})
	return legacy, err
}

// AutoIncrementBuild bumps the build number with a generated fix release.
func (l *Ledger) AutoIncrementBuild(ctx context.Context, description string) (*Document, error) {
	return l.Update(ctx, version.KindBuild, description, &ReleaseInfo{
		Title:     "Build Update - " + description,
		Summary:   "Automated build increment: " + description,
		Changes:   []string{description},
		Technical: []string{"Build number auto-incremented during development"},
	})
}

// IncrementUpdate bumps the update number with a release.
func (l *Ledger) IncrementUpdate(ctx context.Context, title, summary string, changes, technical []string) (*Document, error) {
	return l.incrementWithRelease(ctx, version.KindUpdate, title, summary, changes, technical)
}

// IncrementMinor bumps the minor number with a feature release.
func (l *Ledger) IncrementMinor(ctx context.Context, title, summary string, changes, technical []string) (*Document, error) {
	return l.incrementWithRelease(ctx, version.KindMinor, title, summary, changes, technical)
}

// IncrementMajor bumps the major number with a major release.
func (l *Ledger) IncrementMajor(ctx context.Context, title, summary string, changes, technical []string) (*Document, error) {
	return l.incrementWithRelease(ctx, version.KindMajor, title, summary, changes, technical)
}

func (l *Ledger) incrementWithRelease(ctx context.Context, kind version.Kind, title, summary string, changes, technical []string) (*Document, error) {
	return l.Update(ctx, kind, title+": "+summary, &ReleaseInfo{
		Title:     title,
		Summary:   summary,
		Changes:   changes,
		Technical: technical,
	})
}

// mutate runs one read-modify-write cycle. The document is migrated after
// reading and again before it is written.
func (l *Ledger) mutate(ctx context.Context, fn func(doc *Document) error) (*Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		result *Document
		fnErr  error
	)
	apply := func(current []byte, readErr error) ([]byte, error) {
		doc := l.decode(current, readErr)
		if err := fn(doc); err != nil {
			fnErr = err
			return nil, err
		}
		Migrate(doc)
		result = doc
		return Encode(doc)
	}

	if tx, ok := l.store.(storage.Transactional); ok {
		err := tx.Mutate(ctx, apply)
		if fnErr != nil {
			return nil, fnErr
		}
		if err != nil {
			return nil, errors.StorageError(err, "persist ledger document").
				WithContext("store", l.store.Describe())
		}
		return result, nil
	}

	current, readErr := l.store.Read(ctx)
	data, err := apply(current, readErr)
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, errors.InternalErrorf("encode ledger document: %v", err)
	}
	if err := l.store.Write(ctx, data); err != nil {
		return nil, errors.StorageError(err, "persist ledger document").
			WithContext("store", l.store.Describe())
	}
	return result, nil
}

// decode turns raw store output into a migrated document, falling back to
// the seed document on any read or parse failure.
func (l *Ledger) decode(data []byte, readErr error) *Document {
	log := l.logger.WithField("store", l.store.Describe())

	if readErr != nil {
		if stderrors.Is(readErr, storage.ErrNotFound) {
			log.Debug("No ledger document yet, using defaults")
		} else {
			log.WithError(readErr).Warn("Failed to read ledger document, using defaults")
		}
		return DefaultDocument()
	}

	doc, err := Decode(data)
	if err != nil {
		log.WithError(err).Warn("Malformed ledger document, using defaults")
		return DefaultDocument()
	}

	if _, err := version.ParseLenient(doc.Version); err != nil {
		log.WithError(err).Warn("Malformed version segments read as zero")
	}

	doc.legacy = LegacyKeys(doc)
	if Migrate(doc) {
		log.WithField("legacy_keys", len(doc.legacy)).Debug("Migrated ledger document")
	}
	return doc
}
