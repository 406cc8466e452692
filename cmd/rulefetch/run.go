package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/acquire"
	"github.com/fwojciec/rulefetch/classify"
	"github.com/fwojciec/rulefetch/extract"
	"github.com/fwojciec/rulefetch/fs"
	"github.com/fwojciec/rulefetch/goquery"
	"github.com/fwojciec/rulefetch/htmltomarkdown"
	"github.com/fwojciec/rulefetch/pdfcpu"
	"github.com/fwojciec/rulefetch/pipeline"
	"github.com/fwojciec/rulefetch/readability"
	rfslog "github.com/fwojciec/rulefetch/slog"
	"github.com/fwojciec/rulefetch/toc"
	"github.com/fwojciec/rulefetch/trafilatura"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	if c.Delay > 0 {
		cfg.Delay = c.Delay
	}

	downloadDir := c.DownloadDir
	if downloadDir == "" {
		downloadDir = filepath.Join(c.OutDir, "downloads")
	}
	manifestPath := c.Manifest
	if manifestPath == "" {
		manifestPath = filepath.Join(c.OutDir, "manifest.json")
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	browser := deps.Browser
	if browser == nil {
		lazy := &lazyBrowser{open: launchChrome(c.Headful, c.NoStealth)}
		defer lazy.Close()
		browser = lazy
	}

	runner := c.newRunner(deps, cfg, browser, downloadDir, manifestPath)
	report, err := runner.Run(deps.Ctx, pipeline.Options{
		ForceRefresh: c.ForceRefresh,
		RetryFailed:  c.RetryFailed,
		Progress: func(e pipeline.ProgressEvent) {
			status := "ok"
			switch {
			case e.Err != nil:
				status = "failed: " + e.Err.Error()
			case e.Cached:
				status = "cached"
			}
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s %s\n", e.Completed, e.Total, e.Rule, status)
		},
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rulefetch.ErrorMessage(err))
		return err
	}

	writeSummary(deps.Stdout, report, manifestPath)
	return nil
}

// newRunner wires the pipeline for one run.
func (c *RunCmd) newRunner(deps *Dependencies, cfg rulefetch.Config, browser rulefetch.Browser, downloadDir, manifestPath string) *pipeline.Runner {
	logger := deps.Logger
	reader := pdfcpu.NewReader()
	classifier := classify.NewClassifier(cfg.Classifier, cfg.Site.SectionURLTemplate)

	onAttempt := func(t *rulefetch.Target, a rulefetch.Attempt) {
		if a.Outcome == rulefetch.OutcomeInvalid {
			logger.Info("artifact rejected", "url", t.URL, "strategy", a.Strategy, "reason", rulefetch.ErrorMessage(a.Err))
		}
	}
	driver := &acquire.Driver{
		Validator: acquire.NewValidator(cfg.Validation, reader),
		OnAttempt: onAttempt,
	}

	scraper := goquery.NewScraper(cfg.Scrape, htmltomarkdown.NewConverter(),
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	)

	sections := &acquire.Acquirer{
		Browser:         browser,
		Driver:          driver,
		Strategies:      rfslog.WrapStrategies(acquire.SectionStrategies(cfg, scraper), logger),
		PageLoadTimeout: cfg.Timeouts.PageLoad,
		Settle:          cfg.Timeouts.SectionSettle,
	}
	if !c.NoMethodCache && deps.Methods != nil {
		sections.Methods = deps.Methods
	}

	tocDriver := &acquire.Driver{
		Validator: toc.NewValidator(cfg.Validation, reader),
		OnAttempt: onAttempt,
	}
	tocAcquirer := &toc.Acquirer{
		Browser:         browser,
		Driver:          tocDriver,
		Strategies:      rfslog.WrapStrategies(toc.Strategies(cfg), logger),
		URL:             cfg.Site.TOCURL,
		PageLoadTimeout: cfg.Timeouts.PageLoad,
		Settle:          cfg.Timeouts.TOCSettle,
		RetryDelays:     acquire.DefaultRetryDelays(),
		Logger: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}

	return &pipeline.Runner{
		TOC:        tocAcquirer,
		Links:      &toc.LinkExtractor{Site: cfg.Site},
		Reader:     reader,
		Sections:   sections,
		Classifier: classifier,
		Extractor: rfslog.NewLoggingRecordExtractor(
			&extract.Extractor{Reader: reader, Classifier: classifier},
			logger,
		),
		Manifests: rfslog.NewLoggingManifestStore(fs.NewManifestStore(manifestPath), logger),
		Artifacts: fs.NewArtifactStore(downloadDir, cfg.ArtifactPrefix, cfg.Site),
		Methods:   deps.Methods,
		Runs:      deps.Runs,
		Limiter:   pipeline.NewDomainLimiter(cfg.Delay),
		Logger:    logger,
		Workers:   c.Workers,
		MaxAge:    cfg.ManifestMaxAge,
	}
}

func writeSummary(w io.Writer, report *pipeline.Report, manifestPath string) {
	run := report.Run
	fmt.Fprintf(w, "Run %s (%s)\n", run.ID, run.Mode)
	if !report.Saved {
		fmt.Fprintf(w, "  candidates:         %d\n", run.Candidates)
		fmt.Fprintf(w, "  skipped existing:   %d\n", run.Skipped)
		fmt.Fprintf(w, "No new sections; %s unchanged (%d records)\n", manifestPath, len(report.Manifest.Records))
		return
	}

	s := report.Manifest.Summary
	fmt.Fprintf(w, "  sections found:     %d\n", s.TotalSectionsFound)
	fmt.Fprintf(w, "  filing related:     %d\n", s.FilingRelatedSections)
	fmt.Fprintf(w, "  downloaded:         %d\n", s.SuccessfullyDownloaded)
	fmt.Fprintf(w, "  skipped existing:   %d\n", s.SkippedExistingRules)
	fmt.Fprintf(w, "  new records:        %d\n", s.NewRulesProcessed)
	fmt.Fprintf(w, "  failed:             %d\n", s.FailedSections)
	fmt.Fprintf(w, "Saved %d records to %s\n", len(report.Manifest.Records), manifestPath)
}
