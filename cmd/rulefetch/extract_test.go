package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rulefetch"
	main "github.com/fwojciec/rulefetch/cmd/rulefetch"
	"github.com/fwojciec/rulefetch/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the record for a raw text artifact", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ccp_section_1005_2026-10-15_1.json")
		writeRawText(t, path, "Moving papers shall be served and filed at least 16 court days before the hearing.")

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: yaml.Default(),
		}
		cmd := &main.ExtractCmd{Path: path, Rule: "1005"}

		err := cmd.Run(deps)
		require.NoError(t, err)

		var rec rulefetch.ExtractedRecord
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
		assert.Equal(t, "1005", rec.RuleNumber())
		assert.Equal(t, "CCP Section 1005", rec.Reference.Title)
		assert.Equal(t, rulefetch.ArtifactRawText, rec.File.ContentType)
		assert.True(t, rec.Succeeded())
		assert.NotEmpty(t, rec.Derived.Deadlines)
	})

	t.Run("returns an error for an unreadable artifact", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Config: yaml.Default(),
		}
		cmd := &main.ExtractCmd{Path: path, Rule: "1005", Title: "Motion deadlines"}

		err := cmd.Run(deps)

		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
		assert.Contains(t, stdout.String(), `"status": "error"`)
		assert.Contains(t, stderr.String(), "extraction failed")
	})
}
