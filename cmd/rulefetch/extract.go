package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/classify"
	"github.com/fwojciec/rulefetch/extract"
	"github.com/fwojciec/rulefetch/pdfcpu"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	info, err := os.Stat(c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	kind := rulefetch.ArtifactDocument
	if strings.EqualFold(filepath.Ext(c.Path), rulefetch.ArtifactRawText.Extension()) {
		kind = rulefetch.ArtifactRawText
	}

	title := c.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", cfg.Site.TitlePrefix, c.Rule)
	}
	ref := &rulefetch.SectionReference{
		RuleNumber: c.Rule,
		Title:      title,
		URL:        rulefetch.SectionURL(cfg.Site.SectionURLTemplate, c.Rule),
		Source:     rulefetch.SourceExistingArtifact,
	}

	extractor := &extract.Extractor{
		Reader:     pdfcpu.NewReader(),
		Classifier: classify.NewClassifier(cfg.Classifier, cfg.Site.SectionURLTemplate),
	}
	rec := extractor.Extract(&rulefetch.Artifact{Kind: kind, Path: c.Path, SizeBytes: info.Size()}, ref)

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return err
	}

	if !rec.Succeeded() {
		err := rulefetch.Errorf(rulefetch.EINVALID, "extraction failed: %s", rec.File.Error)
		fmt.Fprintf(deps.Stderr, "error: %s\n", rulefetch.ErrorMessage(err))
		return err
	}
	return nil
}
