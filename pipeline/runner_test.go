package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/classify"
	"github.com/fwojciec/rulefetch/extract"
	"github.com/fwojciec/rulefetch/mock"
	"github.com/fwojciec/rulefetch/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type methodAttempt struct {
	rule    string
	method  string
	success bool
}

// harness wires a Runner to in-memory collaborators.
type harness struct {
	t      *testing.T
	runner *pipeline.Runner

	clock      time.Time
	candidates []*rulefetch.SectionReference
	accept     map[string]bool
	excluded   map[string]bool
	curated    []*rulefetch.SectionReference

	stored  *rulefetch.RunManifest
	saved   []*rulefetch.RunManifest
	newest  time.Time
	cached  []*rulefetch.StoredArtifact
	failing map[string]bool
	broken  map[string]bool

	tocCalls  int
	acquired  []string
	waits     []string
	methods   []methodAttempt
	runs      []*rulefetch.Run
	mu        sync.Mutex
	extracted []string
}

func ref(rule string) *rulefetch.SectionReference {
	return &rulefetch.SectionReference{
		RuleNumber: rule,
		Title:      "CCP Section " + rule,
		URL:        "https://leginfo.legislature.ca.gov/faces/codes_displaySection.xhtml?lawCode=CCP&sectionNum=" + rule,
		Source:     rulefetch.SourceHyperlink,
	}
}

func refs(rules ...string) []*rulefetch.SectionReference {
	out := make([]*rulefetch.SectionReference, 0, len(rules))
	for _, r := range rules {
		out = append(out, ref(r))
	}
	return out
}

func set(rules ...string) map[string]bool {
	m := make(map[string]bool, len(rules))
	for _, r := range rules {
		m[r] = true
	}
	return m
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		clock:    start,
		accept:   map[string]bool{},
		excluded: map[string]bool{},
		failing:  map[string]bool{},
		broken:   map[string]bool{},
	}

	h.runner = &pipeline.Runner{
		TOC: &mock.TOCAcquirer{
			AcquireFn: func(_ context.Context, basePath string) (*rulefetch.Artifact, error) {
				h.tocCalls++
				return &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: basePath + ".pdf"}, nil
			},
		},
		Reader: &mock.DocumentReader{
			ReadDocumentFn: func(string) (*rulefetch.Document, error) {
				return &rulefetch.Document{}, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractFn: func(*rulefetch.Document) []*rulefetch.SectionReference {
				return h.candidates
			},
		},
		Sections: &mock.SectionAcquirer{
			AcquireFn: func(_ context.Context, r *rulefetch.SectionReference, basePath string) (*rulefetch.Outcome, error) {
				h.acquired = append(h.acquired, r.RuleNumber)
				if h.broken[r.RuleNumber] {
					return nil, errors.New("navigate: net::ERR_CONNECTION_RESET")
				}
				if h.failing[r.RuleNumber] {
					return &rulefetch.Outcome{Attempts: []rulefetch.Attempt{
						{Strategy: "download_link", Outcome: rulefetch.OutcomeFailed},
						{Strategy: "print_control", Outcome: rulefetch.OutcomeEmpty},
					}}, nil
				}
				return &rulefetch.Outcome{
					Artifact: &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: basePath + ".pdf", Strategy: "download_link"},
					Attempts: []rulefetch.Attempt{{Strategy: "download_link", Outcome: rulefetch.OutcomeAccepted}},
				}, nil
			},
		},
		Classifier: &mock.Classifier{
			SelectFn: func(candidates []*rulefetch.SectionReference) *rulefetch.Selection {
				sel := &rulefetch.Selection{}
				for _, c := range candidates {
					res := &rulefetch.ClassificationResult{
						Reference: c,
						Included:  h.accept[c.RuleNumber],
						Excluded:  h.excluded[c.RuleNumber],
					}
					sel.Results = append(sel.Results, res)
					if res.Included {
						sel.Accepted = append(sel.Accepted, c)
					}
				}
				sel.Accepted = append(sel.Accepted, h.curated...)
				sel.Curated = h.curated
				return sel
			},
			CriteriaFn: func() rulefetch.FilteringCriteria {
				return rulefetch.FilteringCriteria{MinimumRelevanceScore: 8}
			},
		},
		Extractor: &mock.RecordExtractor{
			ExtractFn: func(a *rulefetch.Artifact, r *rulefetch.SectionReference) *rulefetch.ExtractedRecord {
				h.mu.Lock()
				h.extracted = append(h.extracted, a.Path)
				h.mu.Unlock()
				return &rulefetch.ExtractedRecord{
					Reference: r,
					File:      rulefetch.FileInfo{Path: a.Path, Status: rulefetch.StatusSuccess},
				}
			},
		},
		Manifests: &mock.ManifestStore{
			LoadManifestFn: func(context.Context) (*rulefetch.RunManifest, error) {
				if h.stored == nil {
					return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "manifest not found")
				}
				return h.stored, nil
			},
			SaveManifestFn: func(_ context.Context, m *rulefetch.RunManifest) error {
				h.saved = append(h.saved, m)
				h.stored = m
				return nil
			},
		},
		Artifacts: &mock.ArtifactStore{
			BasePathFn: func(r *rulefetch.SectionReference, _ int) string {
				return "/downloads/ccp_section_" + r.RuleNumber
			},
			TOCBasePathFn: func() string { return "/downloads/ccp_section_toc" },
			FindArtifactsFn: func(context.Context) ([]*rulefetch.StoredArtifact, error) {
				return h.cached, nil
			},
			NewestModTimeFn: func(context.Context) (time.Time, error) {
				return h.newest, nil
			},
		},
		Methods: &mock.MethodStatsService{
			RecordAttemptFn: func(_ context.Context, rule, method string, success bool) error {
				h.methods = append(h.methods, methodAttempt{rule, method, success})
				return nil
			},
		},
		Runs: &mock.RunService{
			CreateRunFn: func(_ context.Context, run *rulefetch.Run) error {
				h.runs = append(h.runs, run)
				return nil
			},
		},
		Limiter: &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				h.waits = append(h.waits, domain)
				return nil
			},
		},
		Workers: 2,
		Now:     func() time.Time { return h.clock },
		NewID:   func() string { return "run-1" },
	}
	return h
}

func (h *harness) prior(age time.Duration, records ...*rulefetch.ExtractedRecord) {
	h.stored = &rulefetch.RunManifest{
		Summary: rulefetch.FilteringSummary{RunID: "run-0", ProcessedAt: start.Add(-age)},
		Records: records,
	}
}

func (h *harness) run(opts pipeline.Options) *pipeline.Report {
	h.t.Helper()
	report, err := h.runner.Run(context.Background(), opts)
	require.NoError(h.t, err)
	return report
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("processes accepted candidates on a fresh run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "201")
		h.accept = set("437c")

		report := h.run(pipeline.Options{})

		require.True(t, report.Saved)
		require.Len(t, h.saved, 1)
		assert.Equal(t, 1, h.tocCalls)
		assert.Equal(t, []string{"437c"}, h.acquired)
		assert.Equal(t, []string{"leginfo.legislature.ca.gov"}, h.waits)
		assert.Equal(t, []string{"437c"}, rules(h.saved[0].Records))

		sum := h.saved[0].Summary
		assert.Equal(t, "run-1", sum.RunID)
		assert.Equal(t, 2, sum.TotalSectionsFound)
		assert.Equal(t, 1, sum.FilingRelatedSections)
		assert.Equal(t, 1, sum.SuccessfullyDownloaded)
		assert.Equal(t, 1, sum.NewRulesProcessed)
		assert.Equal(t, 0, sum.SkippedExistingRules)
		assert.Equal(t, 0, sum.FailedSections)
		assert.Equal(t, 8, sum.Criteria.MinimumRelevanceScore)
		assert.Equal(t, start, sum.ProcessedAt)
		assert.Equal(t, rulefetch.ModeFreshDownload, sum.ProcessingMode)
	})

	t.Run("records run history", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "201", "1005")
		h.accept = set("437c", "1005")
		h.failing = set("1005")

		h.run(pipeline.Options{})

		require.Len(t, h.runs, 1)
		run := h.runs[0]
		assert.Equal(t, "run-1", run.ID)
		assert.Equal(t, rulefetch.ModeFreshDownload, run.Mode)
		assert.Equal(t, 3, run.Candidates)
		assert.Equal(t, 2, run.NewRecords)
		assert.Equal(t, 1, run.Failed)
		assert.Equal(t, start, run.StartedAt)
	})

	t.Run("second run within max age leaves the manifest unchanged", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005", "201")
		h.accept = set("437c", "1005")

		h.run(pipeline.Options{})
		first := h.stored

		h.clock = start.Add(time.Hour)
		report := h.run(pipeline.Options{})

		assert.False(t, report.Saved)
		assert.Empty(t, report.Records)
		assert.Len(t, h.saved, 1)
		assert.Same(t, first, report.Manifest)
		assert.Equal(t, start, report.Manifest.ProcessedAt())
		assert.Equal(t, []string{"437c", "1005"}, h.acquired)
		assert.Equal(t, 2, report.Run.Skipped)
	})

	t.Run("merges new sections with prior records", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.prior(time.Hour, record("12", rulefetch.StatusSuccess), record("437c", rulefetch.StatusSuccess))
		h.candidates = refs("437c", "1005", "1010")
		h.accept = set("437c", "1005", "1010")

		report := h.run(pipeline.Options{})

		require.True(t, report.Saved)
		assert.Equal(t, []string{"1005", "1010"}, h.acquired)
		assert.Equal(t, []string{"12", "437c", "1005", "1010"}, rules(report.Manifest.Records))
		assert.Equal(t, 1, report.Manifest.Summary.SkippedExistingRules)
		assert.Equal(t, 2, report.Manifest.Summary.NewRulesProcessed)
		assert.NoError(t, report.Manifest.Validate())
	})

	t.Run("stale prior manifest is reprocessed", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.prior(25*time.Hour, record("12", rulefetch.StatusSuccess), record("437c", rulefetch.StatusSuccess))
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")

		report := h.run(pipeline.Options{})

		assert.Equal(t, []string{"437c", "1005"}, h.acquired)
		assert.Equal(t, []string{"437c", "1005"}, rules(report.Manifest.Records))
		assert.Equal(t, 0, report.Manifest.Summary.SkippedExistingRules)
	})

	t.Run("force refresh ignores the prior manifest and cached artifacts", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.runner.Manifests.(*mock.ManifestStore).LoadManifestFn = func(context.Context) (*rulefetch.RunManifest, error) {
			t.Error("LoadManifest called")
			return nil, nil
		}
		h.runner.Artifacts.(*mock.ArtifactStore).NewestModTimeFn = func(context.Context) (time.Time, error) {
			t.Error("NewestModTime called")
			return time.Time{}, nil
		}
		h.candidates = refs("437c")
		h.accept = set("437c")

		report := h.run(pipeline.Options{ForceRefresh: true})

		assert.True(t, report.Saved)
		assert.Equal(t, 1, h.tocCalls)
		assert.Equal(t, []string{"437c"}, h.acquired)
	})

	t.Run("failed records are skipped by default", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.prior(time.Hour, record("437c", rulefetch.StatusError), record("1005", rulefetch.StatusSuccess))
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")

		report := h.run(pipeline.Options{})

		assert.Empty(t, h.acquired)
		assert.False(t, report.Saved)
	})

	t.Run("retry failed replaces error records", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.prior(time.Hour, record("437c", rulefetch.StatusError), record("1005", rulefetch.StatusSuccess))
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")

		report := h.run(pipeline.Options{RetryFailed: true})

		require.True(t, report.Saved)
		assert.Equal(t, []string{"437c"}, h.acquired)
		assert.Equal(t, []string{"437c", "1005"}, rules(report.Manifest.Records))
		assert.True(t, report.Manifest.Records[0].Succeeded())
		assert.Equal(t, 1, report.Manifest.Summary.SkippedExistingRules)
	})

	t.Run("exhausted strategies produce an error record", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")
		h.failing = set("437c")

		report := h.run(pipeline.Options{})

		require.Len(t, report.Records, 2)
		assert.False(t, report.Records[0].Succeeded())
		assert.Equal(t, "no valid artifact after 2 strategies", report.Records[0].File.Error)
		assert.True(t, report.Records[1].Succeeded())
		assert.Equal(t, 1, report.Manifest.Summary.FailedSections)
		assert.Equal(t, 1, report.Manifest.Summary.SuccessfullyDownloaded)
		assert.Equal(t, []string{"/downloads/ccp_section_1005.pdf"}, h.extracted)
	})

	t.Run("unreachable section produces an error record and the run continues", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")
		h.broken = set("437c")

		report := h.run(pipeline.Options{})

		assert.Equal(t, []string{"437c", "1005"}, h.acquired)
		require.Len(t, report.Records, 2)
		assert.Equal(t, rulefetch.StatusError, report.Records[0].File.Status)
		assert.Contains(t, report.Records[0].File.Error, "ERR_CONNECTION_RESET")
		assert.True(t, report.Records[1].Succeeded())
	})

	t.Run("records strategy outcomes as method statistics", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")
		h.failing = set("437c")

		h.run(pipeline.Options{})

		assert.Equal(t, []methodAttempt{
			{"437c", "download_link", false},
			{"1005", "download_link", true},
		}, h.methods)
	})

	t.Run("reports progress per section", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")
		h.failing = set("1005")

		var events []pipeline.ProgressEvent
		h.run(pipeline.Options{Progress: func(e pipeline.ProgressEvent) {
			events = append(events, e)
		}})

		require.Len(t, events, 2)
		assert.Equal(t, 1, events[0].Completed)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, "437c", events[0].Rule)
		assert.NoError(t, events[0].Err)
		assert.Error(t, events[1].Err)
	})

	t.Run("reuses fresh downloaded artifacts", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.runner.TOC.(*mock.TOCAcquirer).AcquireFn = func(context.Context, string) (*rulefetch.Artifact, error) {
			t.Error("table of contents acquired")
			return nil, errors.New("unexpected")
		}
		h.newest = start.Add(-time.Hour)
		h.cached = []*rulefetch.StoredArtifact{
			{
				Reference: ref("437c"),
				Artifact:  &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: "/downloads/ccp_section_437c_2026-10-15_1.pdf"},
			},
			{
				Reference: ref("201"),
				Artifact:  &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: "/downloads/ccp_section_201_2026-10-15_2.pdf"},
			},
		}
		h.excluded = set("201")
		h.curated = refs("1005")

		report := h.run(pipeline.Options{})

		assert.Equal(t, []string{"1005"}, h.acquired)
		assert.ElementsMatch(t, []string{
			"/downloads/ccp_section_437c_2026-10-15_1.pdf",
			"/downloads/ccp_section_1005.pdf",
		}, h.extracted)
		assert.Equal(t, []string{"437c", "1005"}, rules(report.Manifest.Records))
		assert.Equal(t, rulefetch.ModeExistingArtifacts, report.Manifest.Summary.ProcessingMode)
		assert.Equal(t, 2, report.Manifest.Summary.TotalSectionsFound)
		assert.Equal(t, 1, report.Manifest.Summary.SuccessfullyDownloaded)
	})

	t.Run("gap fill fetches only curated sections missing from the manifest", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.newest = start.Add(-time.Hour)
		h.prior(time.Hour, record("437c", rulefetch.StatusSuccess))
		h.cached = []*rulefetch.StoredArtifact{{
			Reference: ref("437c"),
			Artifact:  &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: "/downloads/ccp_section_437c_2026-10-15_1.pdf"},
		}}
		h.curated = refs("437c", "1005")

		report := h.run(pipeline.Options{})

		assert.Equal(t, []string{"1005"}, h.acquired)
		assert.Equal(t, []string{"437c", "1005"}, rules(report.Manifest.Records))
	})

	t.Run("table of contents failure aborts the run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.runner.TOC.(*mock.TOCAcquirer).AcquireFn = func(context.Context, string) (*rulefetch.Artifact, error) {
			return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "table of contents unavailable after 2 strategies")
		}

		_, err := h.runner.Run(context.Background(), pipeline.Options{})

		require.Error(t, err)
		assert.Equal(t, rulefetch.ENOTFOUND, rulefetch.ErrorCode(err))
		assert.Empty(t, h.saved)
	})

	t.Run("corrupt manifest aborts the run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.runner.Manifests.(*mock.ManifestStore).LoadManifestFn = func(context.Context) (*rulefetch.RunManifest, error) {
			return nil, rulefetch.Errorf(rulefetch.EINVALID, "corrupt manifest")
		}

		_, err := h.runner.Run(context.Background(), pipeline.Options{})

		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
		assert.Equal(t, 0, h.tocCalls)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c")
		h.accept = set("437c")
		h.runner.Manifests.(*mock.ManifestStore).SaveManifestFn = func(context.Context, *rulefetch.RunManifest) error {
			return errors.New("disk full")
		}

		_, err := h.runner.Run(context.Background(), pipeline.Options{})

		assert.ErrorContains(t, err, "disk full")
		assert.Empty(t, h.runs)
	})

	t.Run("cancellation aborts the run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c", "1005")
		h.accept = set("437c", "1005")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		h.runner.Sections.(*mock.SectionAcquirer).AcquireFn = func(ctx context.Context, r *rulefetch.SectionReference, _ string) (*rulefetch.Outcome, error) {
			h.acquired = append(h.acquired, r.RuleNumber)
			cancel()
			return nil, ctx.Err()
		}

		_, err := h.runner.Run(ctx, pipeline.Options{})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"437c"}, h.acquired)
		assert.Empty(t, h.saved)
	})

	t.Run("run history failure does not fail the run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.candidates = refs("437c")
		h.accept = set("437c")
		h.runner.Runs = &mock.RunService{
			CreateRunFn: func(context.Context, *rulefetch.Run) error {
				return errors.New("database is locked")
			},
		}

		report := h.run(pipeline.Options{})

		assert.True(t, report.Saved)
	})
}

func TestRunner_Run_Classification(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	classifier := classify.NewClassifier(classify.DefaultConfig(), rulefetch.DefaultConfig().Site.SectionURLTemplate)

	var stored *rulefetch.RunManifest
	runner := &pipeline.Runner{
		TOC: &mock.TOCAcquirer{
			AcquireFn: func(_ context.Context, basePath string) (*rulefetch.Artifact, error) {
				return &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: basePath + ".pdf"}, nil
			},
		},
		Reader: &mock.DocumentReader{
			ReadDocumentFn: func(string) (*rulefetch.Document, error) {
				return &rulefetch.Document{}, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractFn: func(*rulefetch.Document) []*rulefetch.SectionReference {
				return []*rulefetch.SectionReference{
					{RuleNumber: "437c", Title: "Summary Judgment Motions", Source: rulefetch.SourceHyperlink},
					{RuleNumber: "201", Title: "Jury Selection Procedures", Source: rulefetch.SourceHyperlink},
				}
			},
		},
		Sections: &mock.SectionAcquirer{
			AcquireFn: func(_ context.Context, r *rulefetch.SectionReference, basePath string) (*rulefetch.Outcome, error) {
				path := basePath + ".json"
				data, err := json.Marshal(rulefetch.RawTextPayload{
					Source:  "raw_scrape",
					Title:   r.Title,
					Content: "A motion for summary judgment shall be served at least 81 days before the hearing. See Section 1005 and Section 437c.5.",
				})
				if err != nil {
					return nil, err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return nil, err
				}
				return &rulefetch.Outcome{
					Artifact: &rulefetch.Artifact{Kind: rulefetch.ArtifactRawText, Path: path, SizeBytes: int64(len(data))},
					Attempts: []rulefetch.Attempt{{Strategy: "raw_scrape", Outcome: rulefetch.OutcomeAccepted}},
				}, nil
			},
		},
		Classifier: classifier,
		Extractor:  &extract.Extractor{Classifier: classifier},
		Manifests: &mock.ManifestStore{
			LoadManifestFn: func(context.Context) (*rulefetch.RunManifest, error) {
				return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "manifest not found")
			},
			SaveManifestFn: func(_ context.Context, m *rulefetch.RunManifest) error {
				stored = m
				return nil
			},
		},
		Artifacts: &mock.ArtifactStore{
			BasePathFn: func(r *rulefetch.SectionReference, _ int) string {
				return filepath.Join(dir, "ccp_section_"+r.RuleNumber)
			},
			TOCBasePathFn: func() string { return filepath.Join(dir, "ccp_section_toc") },
			NewestModTimeFn: func(context.Context) (time.Time, error) {
				return time.Time{}, nil
			},
		},
	}

	_, err := runner.Run(context.Background(), pipeline.Options{})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Nil(t, stored.Find("201"))
	rec := stored.Find("437c")
	require.NotNil(t, rec)
	require.True(t, rec.Succeeded())
	assert.NotEmpty(t, rec.Derived.CrossReferences)
	assert.Regexp(t, `\d+\.?\d*`, rec.Derived.CrossReferences[0])
	assert.True(t, rec.Derived.FilingRelevance.Included)
	assert.NotNil(t, stored.Find("1005"), "curated sections are always fetched")
	assert.NoError(t, stored.Validate())
}
