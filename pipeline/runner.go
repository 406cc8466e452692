// Package pipeline runs the retrieval pipeline: candidate discovery,
// classification, acquisition, extraction and the merge into the persisted
// run manifest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxAge is how long a manifest or artifact stays fresh when the
// runner has no MaxAge configured.
const DefaultMaxAge = 24 * time.Hour

// Runner coordinates one pipeline run.
type Runner struct {
	TOC        rulefetch.TOCAcquirer
	Links      rulefetch.LinkExtractor
	Reader     rulefetch.DocumentReader
	Sections   rulefetch.SectionAcquirer
	Classifier rulefetch.Classifier
	Extractor  rulefetch.RecordExtractor
	Manifests  rulefetch.ManifestStore
	Artifacts  rulefetch.ArtifactStore

	// Optional collaborators.
	Methods rulefetch.MethodStatsService
	Runs    rulefetch.RunService
	Limiter rulefetch.DomainLimiter

	Logger *slog.Logger

	// Workers bounds concurrent extraction. Acquisition is always sequential.
	Workers int
	MaxAge  time.Duration

	Now   func() time.Time
	NewID func() string
}

// Options controls a single run.
type Options struct {
	// ForceRefresh ignores the prior manifest and any cached artifacts.
	ForceRefresh bool

	// RetryFailed reprocesses sections whose prior record is an error.
	RetryFailed bool

	// Progress, if set, receives one event per acquired section.
	Progress ProgressFunc
}

// ProgressEvent reports the acquisition of one section.
type ProgressEvent struct {
	Completed int
	Total     int
	Rule      string
	Cached    bool
	Err       error
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Report is the outcome of a run.
type Report struct {
	Run      *rulefetch.Run
	Manifest *rulefetch.RunManifest

	// Records are the records produced by this run, in work order.
	Records []*rulefetch.ExtractedRecord

	// Saved is false when the prior manifest was kept unchanged.
	Saved bool
}

// item is one unit of work: a reference and, once acquired, its artifact.
type item struct {
	ref      *rulefetch.SectionReference
	artifact *rulefetch.Artifact
	cached   bool
	err      error
}

// Run executes the pipeline once. Per-section failures become error records;
// only discovery failures, manifest I/O failures and cancellation are
// returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	started := r.now()
	run := &rulefetch.Run{ID: r.newID(), StartedAt: started}

	prior, err := r.loadPrior(ctx, opts, started)
	if err != nil {
		return nil, err
	}

	run.Mode, err = r.mode(ctx, opts, started)
	if err != nil {
		return nil, err
	}
	r.logger().Info("run started", "run", run.ID, "mode", run.Mode, "prior", priorCount(prior))

	var (
		candidates []*rulefetch.SectionReference
		cached     map[string]*rulefetch.Artifact
	)
	switch run.Mode {
	case rulefetch.ModeExistingArtifacts:
		candidates, cached, err = r.existing(ctx)
	default:
		candidates, err = r.discover(ctx)
	}
	if err != nil {
		return nil, err
	}
	run.Candidates = len(candidates)

	accepted := r.accept(run.Mode, candidates)
	skip := SkipSet(prior, opts.RetryFailed)

	var work []*item
	for _, ref := range accepted {
		if skip[ref.RuleNumber] {
			run.Skipped++
			continue
		}
		it := &item{ref: ref}
		if a, ok := cached[ref.RuleNumber]; ok {
			it.artifact = a
			it.cached = true
		}
		work = append(work, it)
	}
	r.logger().Info("classified",
		"candidates", len(candidates),
		"accepted", len(accepted),
		"skipped", run.Skipped,
		"work", len(work),
	)

	downloaded, err := r.acquireAll(ctx, work, opts.Progress)
	if err != nil {
		return nil, err
	}

	records, err := r.extractAll(ctx, work)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if !rec.Succeeded() {
			run.Failed++
		}
	}
	run.NewRecords = len(records)

	report := &Report{Run: run, Records: records}
	if prior != nil && len(records) == 0 {
		report.Manifest = prior
	} else {
		report.Manifest = &rulefetch.RunManifest{
			Summary: rulefetch.FilteringSummary{
				RunID:                  run.ID,
				TotalSectionsFound:     len(candidates),
				FilingRelatedSections:  len(accepted),
				SuccessfullyDownloaded: downloaded,
				SkippedExistingRules:   run.Skipped,
				NewRulesProcessed:      len(records),
				FailedSections:         run.Failed,
				Criteria:               r.Classifier.Criteria(),
				ProcessedAt:            r.now(),
				ProcessingMode:         run.Mode,
			},
			Records: Merge(prior, records),
		}
		if err := r.Manifests.SaveManifest(ctx, report.Manifest); err != nil {
			return nil, fmt.Errorf("save manifest: %w", err)
		}
		report.Saved = true
	}

	run.FinishedAt = r.now()
	if r.Runs != nil {
		if err := r.Runs.CreateRun(ctx, run); err != nil {
			r.logger().Warn("record run", "run", run.ID, "err", err)
		}
	}
	r.logger().Info("run finished",
		"run", run.ID,
		"new", run.NewRecords,
		"failed", run.Failed,
		"total", len(report.Manifest.Records),
		"duration", run.FinishedAt.Sub(started),
	)
	return report, nil
}

// loadPrior returns the prior manifest, or nil when there is none, it is
// stale or a refresh is forced.
func (r *Runner) loadPrior(ctx context.Context, opts Options, now time.Time) (*rulefetch.RunManifest, error) {
	if opts.ForceRefresh {
		return nil, nil
	}
	m, err := r.Manifests.LoadManifest(ctx)
	if rulefetch.ErrorCode(err) == rulefetch.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if m.Stale(now, r.maxAge()) {
		r.logger().Info("prior manifest stale", "processed_at", m.ProcessedAt())
		return nil, nil
	}
	return m, nil
}

// mode reuses downloaded artifacts while the newest one is fresh.
func (r *Runner) mode(ctx context.Context, opts Options, now time.Time) (rulefetch.ProcessingMode, error) {
	if opts.ForceRefresh {
		return rulefetch.ModeFreshDownload, nil
	}
	newest, err := r.Artifacts.NewestModTime(ctx)
	if err != nil {
		return "", fmt.Errorf("check artifacts: %w", err)
	}
	if newest.IsZero() || now.Sub(newest) > r.maxAge() {
		return rulefetch.ModeFreshDownload, nil
	}
	return rulefetch.ModeExistingArtifacts, nil
}

// discover acquires the TOC and extracts its section references.
func (r *Runner) discover(ctx context.Context) ([]*rulefetch.SectionReference, error) {
	artifact, err := r.TOC.Acquire(ctx, r.Artifacts.TOCBasePath())
	if err != nil {
		return nil, fmt.Errorf("acquire table of contents: %w", err)
	}
	doc, err := r.Reader.ReadDocument(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("read table of contents: %w", err)
	}
	refs := r.Links.Extract(doc)
	if len(refs) == 0 {
		r.logger().Warn("no section references found", "path", artifact.Path)
	}
	return refs, nil
}

// existing returns the references recovered from downloaded artifacts and
// the artifacts keyed by rule number.
func (r *Runner) existing(ctx context.Context) ([]*rulefetch.SectionReference, map[string]*rulefetch.Artifact, error) {
	stored, err := r.Artifacts.FindArtifacts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("find artifacts: %w", err)
	}
	refs := make([]*rulefetch.SectionReference, 0, len(stored))
	cached := make(map[string]*rulefetch.Artifact, len(stored))
	for _, s := range stored {
		refs = append(refs, s.Reference)
		cached[s.Reference.RuleNumber] = s.Artifact
	}
	return refs, cached, nil
}

// accept returns the references to process. Downloaded artifacts passed
// classification when they were fetched, so in existing-artifact mode only
// exclusion rules drop them. Curated references are added in both modes.
func (r *Runner) accept(mode rulefetch.ProcessingMode, candidates []*rulefetch.SectionReference) []*rulefetch.SectionReference {
	sel := r.Classifier.Select(candidates)
	if mode != rulefetch.ModeExistingArtifacts {
		return sel.Accepted
	}

	seen := make(map[string]bool)
	var out []*rulefetch.SectionReference
	for _, res := range sel.Results {
		if res.Excluded || seen[res.Reference.RuleNumber] {
			continue
		}
		seen[res.Reference.RuleNumber] = true
		out = append(out, res.Reference)
	}
	for _, ref := range sel.Curated {
		if !seen[ref.RuleNumber] {
			seen[ref.RuleNumber] = true
			out = append(out, ref)
		}
	}
	return out
}

// acquireAll fetches artifacts for work items that have none, one at a time.
// It returns the number of artifacts downloaded.
func (r *Runner) acquireAll(ctx context.Context, work []*item, progress ProgressFunc) (int, error) {
	var downloaded int
	for i, it := range work {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !it.cached {
			if err := r.acquire(ctx, it, i+1); err != nil {
				return 0, err
			}
			if it.artifact != nil {
				downloaded++
			}
		}
		if progress != nil {
			progress(ProgressEvent{
				Completed: i + 1,
				Total:     len(work),
				Rule:      it.ref.RuleNumber,
				Cached:    it.cached,
				Err:       it.err,
			})
		}
	}
	return downloaded, nil
}

// acquire runs the section chain for it. Section failures are stored on the
// item; only cancellation is returned.
func (r *Runner) acquire(ctx context.Context, it *item, index int) error {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, host(it.ref.URL)); err != nil {
			return err
		}
	}

	out, err := r.Sections.Acquire(ctx, it.ref, r.Artifacts.BasePath(it.ref, index))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		it.err = err
		r.logger().Warn("section failed", "rule", it.ref.RuleNumber, "err", err)
		return nil
	}

	r.recordAttempts(ctx, it.ref, out.Attempts)
	if out.Artifact == nil {
		it.err = rulefetch.Errorf(rulefetch.ENOTFOUND, "no valid artifact after %d strategies", len(out.Attempts))
		r.logger().Warn("section failed", "rule", it.ref.RuleNumber, "err", it.err)
		return nil
	}
	it.artifact = out.Artifact
	return nil
}

// recordAttempts feeds strategy outcomes into the method statistics. Empty
// attempts say nothing about the method and are not recorded.
func (r *Runner) recordAttempts(ctx context.Context, ref *rulefetch.SectionReference, attempts []rulefetch.Attempt) {
	if r.Methods == nil {
		return
	}
	for _, a := range attempts {
		if a.Outcome == rulefetch.OutcomeEmpty {
			continue
		}
		success := a.Outcome == rulefetch.OutcomeAccepted
		if err := r.Methods.RecordAttempt(ctx, ref.RuleNumber, a.Strategy, success); err != nil {
			r.logger().Warn("record method attempt", "rule", ref.RuleNumber, "method", a.Strategy, "err", err)
		}
	}
}

// extractAll converts every work item into a record. Items without an
// artifact become error records. Each extraction is isolated: one bad
// artifact yields one error record.
func (r *Runner) extractAll(ctx context.Context, work []*item) ([]*rulefetch.ExtractedRecord, error) {
	records := make([]*rulefetch.ExtractedRecord, len(work))

	var g errgroup.Group
	g.SetLimit(r.workers())
	for i, it := range work {
		if it.artifact == nil {
			records[i] = rulefetch.NewErrorRecord(it.ref, nil, it.err, r.now())
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = r.Extractor.Extract(it.artifact, it.ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.New().String()
}

func (r *Runner) maxAge() time.Duration {
	if r.MaxAge > 0 {
		return r.MaxAge
	}
	return DefaultMaxAge
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return 4
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func priorCount(m *rulefetch.RunManifest) int {
	if m == nil {
		return 0
	}
	return len(m.Records)
}
