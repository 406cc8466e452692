package toc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/acquire"
	"github.com/fwojciec/rulefetch/mock"
	"github.com/fwojciec/rulefetch/toc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptAll() *acquire.Driver {
	return &acquire.Driver{Validator: &mock.Validator{ValidateFn: func(*rulefetch.Artifact) error { return nil }}}
}

func TestStrategies(t *testing.T) {
	t.Parallel()

	chain := toc.Strategies(rulefetch.DefaultConfig())

	require.Len(t, chain, 2)
	assert.Equal(t, acquire.StrategyTOCPrintControl, chain[0].Name())
	assert.Equal(t, acquire.StrategyTOCRender, chain[1].Name())
}

func TestAcquirer_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("renders page when print control is missing", func(t *testing.T) {
		t.Parallel()
		page := &mock.Page{
			GotoFn: func(context.Context, string) error { return nil },
			QuerySelectorAllFn: func(context.Context, string) ([]rulefetch.Element, error) {
				return nil, nil
			},
			RenderToFileFn: func(_ context.Context, path string, _ rulefetch.RenderOptions) error {
				return os.WriteFile(path, []byte("%PDF-1.4"+strings.Repeat(" ", 2000)), 0o644)
			},
			CloseFn: func() error { return nil },
		}
		a := &toc.Acquirer{
			Browser:    &mock.Browser{NewPageFn: func(context.Context) (rulefetch.Page, error) { return page, nil }},
			Driver:     acceptAll(),
			Strategies: toc.Strategies(rulefetch.DefaultConfig()),
			URL:        "https://example.com/toc",
		}

		artifact, err := a.Acquire(context.Background(), filepath.Join(t.TempDir(), "toc"))

		require.NoError(t, err)
		assert.Equal(t, acquire.StrategyTOCRender, artifact.Strategy)
	})

	t.Run("retries navigation", func(t *testing.T) {
		t.Parallel()
		var gotos int
		page := &mock.Page{
			GotoFn: func(context.Context, string) error {
				gotos++
				if gotos == 1 {
					return errors.New("net::ERR_CONNECTION_RESET")
				}
				return nil
			},
			CloseFn: func() error { return nil },
		}
		var calls []string
		a := &toc.Acquirer{
			Browser: &mock.Browser{NewPageFn: func(context.Context) (rulefetch.Page, error) { return page, nil }},
			Driver:  acceptAll(),
			Strategies: []rulefetch.Strategy{&mock.Strategy{
				NameFn: func() string { return "render" },
				AttemptFn: func(_ context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
					calls = append(calls, "render")
					path := target.PathFor(rulefetch.ArtifactDocument)
					require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))
					return &rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: path}, nil
				},
			}},
			RetryDelays: []time.Duration{time.Millisecond},
		}

		_, err := a.Acquire(context.Background(), filepath.Join(t.TempDir(), "toc"))

		require.NoError(t, err)
		assert.Equal(t, 2, gotos)
		assert.Equal(t, []string{"render"}, calls)
	})

	t.Run("fails when every strategy is exhausted", func(t *testing.T) {
		t.Parallel()
		page := &mock.Page{
			GotoFn:  func(context.Context, string) error { return nil },
			CloseFn: func() error { return nil },
		}
		a := &toc.Acquirer{
			Browser: &mock.Browser{NewPageFn: func(context.Context) (rulefetch.Page, error) { return page, nil }},
			Driver:  acceptAll(),
			Strategies: []rulefetch.Strategy{&mock.Strategy{
				NameFn:    func() string { return "render" },
				AttemptFn: func(context.Context, *rulefetch.Target) (*rulefetch.Artifact, error) { return nil, errors.New("print failed") },
			}},
		}

		_, err := a.Acquire(context.Background(), filepath.Join(t.TempDir(), "toc"))

		assert.Equal(t, rulefetch.ENOTFOUND, rulefetch.ErrorCode(err))
	})
}

// tocText is the first page of a rendered table of contents, site
// navigation included.
const tocText = "California Law Publications Other Resources My Subscriptions\n" +
	"Code: Select Code Section: Search\n" +
	"CODE OF CIVIL PROCEDURE - CCP\n" +
	"PRELIMINARY PROVISIONS [1 - 32]"

func documentReader(text string) *mock.DocumentReader {
	return &mock.DocumentReader{
		ReadDocumentFn: func(string) (*rulefetch.Document, error) {
			return &rulefetch.Document{Pages: []rulefetch.DocumentPage{{Number: 1, Text: text}}}, nil
		},
	}
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	cfg := rulefetch.DefaultConfig().Validation
	writeTOC := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "toc.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"+strings.Repeat(" ", 2000)), 0o644))
		return path
	}

	t.Run("accepts table of contents with site navigation", func(t *testing.T) {
		t.Parallel()
		path := writeTOC(t)

		err := toc.NewValidator(cfg, documentReader(tocText)).Validate(&rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: path})

		require.NoError(t, err)
		sectionErr := acquire.NewValidator(cfg, documentReader(tocText)).Validate(&rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: path})
		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(sectionErr))
	})

	t.Run("rejects unavailable document page", func(t *testing.T) {
		t.Parallel()
		path := writeTOC(t)

		err := toc.NewValidator(cfg, documentReader("Required PDF file not available.")).Validate(&rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: path})

		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
	})

	t.Run("rejects table of contents without text", func(t *testing.T) {
		t.Parallel()
		path := writeTOC(t)

		err := toc.NewValidator(cfg, documentReader("")).Validate(&rulefetch.Artifact{Kind: rulefetch.ArtifactDocument, Path: path})

		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
	})

	t.Run("lets the acquirer keep a rendered table of contents", func(t *testing.T) {
		t.Parallel()
		page := &mock.Page{
			GotoFn: func(context.Context, string) error { return nil },
			QuerySelectorAllFn: func(context.Context, string) ([]rulefetch.Element, error) {
				return nil, nil
			},
			RenderToFileFn: func(_ context.Context, path string, _ rulefetch.RenderOptions) error {
				return os.WriteFile(path, []byte("%PDF-1.4"+strings.Repeat(" ", 2000)), 0o644)
			},
			CloseFn: func() error { return nil },
		}
		a := &toc.Acquirer{
			Browser:    &mock.Browser{NewPageFn: func(context.Context) (rulefetch.Page, error) { return page, nil }},
			Driver:     &acquire.Driver{Validator: toc.NewValidator(cfg, documentReader(tocText))},
			Strategies: toc.Strategies(rulefetch.DefaultConfig()),
			URL:        "https://example.com/toc",
		}

		artifact, err := a.Acquire(context.Background(), filepath.Join(t.TempDir(), "toc"))

		require.NoError(t, err)
		require.NotNil(t, artifact)
		assert.Equal(t, acquire.StrategyTOCRender, artifact.Strategy)
	})
}
