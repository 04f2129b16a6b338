package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/rohankatakam/relver/internal/output"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Action describes what happened to one GitHub release
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionPlanned   Action = "planned" // dry run
)

// Options configures the publisher
type Options struct {
	Owner       string
	Repo        string
	Token       string
	BaseURL     string // GitHub Enterprise API root, empty for github.com
	RateLimit   int    // Requests per second
	Concurrency int    // Parallel releases
	Draft       bool
	TagPrefix   string
	DryRun      bool
}

// Result is the outcome for one ledger release
type Result struct {
	Version string `json:"version"`
	Tag     string `json:"tag"`
	Action  Action `json:"action"`
	URL     string `json:"url,omitempty"`
}

// GitHubPublisher mirrors ledger releases to GitHub releases, one per tag
type GitHubPublisher struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	opts        Options
	logger      *logrus.Entry
	markdown    *output.MarkdownFormatter
}

// NewGitHubPublisher creates a publisher with rate limiting
func NewGitHubPublisher(opts Options, logger *logrus.Logger) (*GitHubPublisher, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, errors.ConfigError("github owner and repo are required")
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	client := github.NewClient(nil)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh, "invalid github base url")
		}
	}

	return &GitHubPublisher{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		opts:        opts,
		logger: logger.WithFields(logrus.Fields{
			"component": "publish",
			"repo":      opts.Owner + "/" + opts.Repo,
		}),
		markdown: &output.MarkdownFormatter{},
	}, nil
}

// Tag returns the git tag a release is published under, e.g. "v0.01.012.000"
func (p *GitHubPublisher) Tag(r *ledger.Release) string {
	return p.opts.TagPrefix + r.Version
}

// Publish creates or updates a GitHub release for every ledger release.
// Results keep the order of releases; on error the results gathered so
// far are returned with it.
func (p *GitHubPublisher) Publish(ctx context.Context, releases []*ledger.Release) ([]Result, error) {
	results := make([]Result, len(releases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, r := range releases {
		i, r := i, r
		g.Go(func() error {
			res, err := p.publishOne(ctx, r)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var done []Result
		for _, res := range results {
			if res.Action != "" {
				done = append(done, res)
			}
		}
		return done, err
	}
	return results, nil
}

func (p *GitHubPublisher) publishOne(ctx context.Context, r *ledger.Release) (Result, error) {
	tag := p.Tag(r)
	res := Result{Version: r.Version, Tag: tag}
	log := p.logger.WithField("tag", tag)

	body, err := p.body(r)
	if err != nil {
		return res, err
	}
	name := fmt.Sprintf("%s - %s", r.Version, r.Title)

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return res, fmt.Errorf("rate limiter: %w", err)
	}
	existing, resp, err := p.client.Repositories.GetReleaseByTag(ctx, p.opts.Owner, p.opts.Repo, tag)
	if err != nil && (resp == nil || resp.StatusCode != http.StatusNotFound) {
		return res, errors.ExternalErrorf(err, "fetch release %s", tag).WithContext("tag", tag)
	}

	if p.opts.DryRun {
		res.Action = ActionPlanned
		log.Info("dry run, release not published")
		return res, nil
	}

	if existing == nil {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("rate limiter: %w", err)
		}
		created, _, err := p.client.Repositories.CreateRelease(ctx, p.opts.Owner, p.opts.Repo, &github.RepositoryRelease{
			TagName: github.String(tag),
			Name:    github.String(name),
			Body:    github.String(body),
			Draft:   github.Bool(p.opts.Draft),
		})
		if err != nil {
			return res, errors.ExternalErrorf(err, "create release %s", tag).WithContext("tag", tag)
		}
		res.Action = ActionCreated
		res.URL = created.GetHTMLURL()
		log.Info("release created")
		return res, nil
	}

	res.URL = existing.GetHTMLURL()
	if existing.GetName() == name && existing.GetBody() == body {
		res.Action = ActionUnchanged
		log.Debug("release up to date")
		return res, nil
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return res, fmt.Errorf("rate limiter: %w", err)
	}
	updated, _, err := p.client.Repositories.EditRelease(ctx, p.opts.Owner, p.opts.Repo, existing.GetID(), &github.RepositoryRelease{
		Name: github.String(name),
		Body: github.String(body),
	})
	if err != nil {
		return res, errors.ExternalErrorf(err, "update release %s", tag).WithContext("tag", tag)
	}
	res.Action = ActionUpdated
	res.URL = updated.GetHTMLURL()
	log.Info("release updated")
	return res, nil
}

func (p *GitHubPublisher) body(r *ledger.Release) (string, error) {
	var buf bytes.Buffer
	if err := p.markdown.Release(&buf, r, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}
