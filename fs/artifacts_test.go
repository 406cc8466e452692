package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArtifactStore(t *testing.T) (*fs.ArtifactStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := fs.NewArtifactStore(dir, "ccp_section", rulefetch.DefaultConfig().Site)
	store.Now = func() time.Time { return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC) }
	return store, dir
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestArtifactStore_BasePath(t *testing.T) {
	t.Parallel()

	store, dir := newArtifactStore(t)

	assert.Equal(t,
		filepath.Join(dir, "ccp_section_437c_2026-10-15_3"),
		store.BasePath(&rulefetch.SectionReference{RuleNumber: "437C"}, 3))
	assert.Equal(t,
		filepath.Join(dir, "ccp_section_430.10_2026-10-15_0"),
		store.BasePath(&rulefetch.SectionReference{RuleNumber: "430.10 "}, 0))
	assert.Equal(t, filepath.Join(dir, "ccp_section_toc_2026-10-15"), store.TOCBasePath())
}

func TestArtifactStore_FindArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("returns nothing for a missing directory", func(t *testing.T) {
		t.Parallel()

		store := fs.NewArtifactStore(filepath.Join(t.TempDir(), "missing"), "ccp_section", rulefetch.DefaultConfig().Site)

		found, err := store.FindArtifacts(context.Background())

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("parses names and keeps the newest artifact per rule", func(t *testing.T) {
		t.Parallel()

		store, dir := newArtifactStore(t)
		mod := time.Date(2026, 10, 15, 7, 0, 0, 0, time.UTC)
		touch(t, filepath.Join(dir, "ccp_section_1005_2026-10-14_4.pdf"), mod)
		touch(t, filepath.Join(dir, "ccp_section_1005_2026-10-15_1.json"), mod)
		touch(t, filepath.Join(dir, "ccp_section_437c_2026-10-15_0.pdf"), mod)
		touch(t, filepath.Join(dir, "ccp_section_12_2026-10-15_2.pdf"), mod)
		touch(t, filepath.Join(dir, "ccp_section_toc_2026-10-15.pdf"), mod)
		touch(t, filepath.Join(dir, "notes.txt"), mod)

		found, err := store.FindArtifacts(context.Background())

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "12", found[0].Reference.RuleNumber)
		assert.Equal(t, "437c", found[1].Reference.RuleNumber)
		assert.Equal(t, "1005", found[2].Reference.RuleNumber)

		latest := found[2]
		assert.Equal(t, rulefetch.ArtifactRawText, latest.Artifact.Kind)
		assert.Equal(t, filepath.Join(dir, "ccp_section_1005_2026-10-15_1.json"), latest.Artifact.Path)
		assert.Equal(t, rulefetch.SourceExistingArtifact, latest.Reference.Source)
		assert.Equal(t, "CCP Section 1005", latest.Reference.Title)
		assert.Equal(t,
			"https://leginfo.legislature.ca.gov/faces/codes_displaySection.xhtml?lawCode=CCP&sectionNum=1005",
			latest.Reference.URL)
		assert.Equal(t, int64(8), latest.Artifact.SizeBytes)
	})

	t.Run("breaks date ties by index", func(t *testing.T) {
		t.Parallel()

		store, dir := newArtifactStore(t)
		mod := time.Now()
		touch(t, filepath.Join(dir, "ccp_section_12_2026-10-15_2.pdf"), mod)
		touch(t, filepath.Join(dir, "ccp_section_12_2026-10-15_10.pdf"), mod)

		found, err := store.FindArtifacts(context.Background())

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, filepath.Join(dir, "ccp_section_12_2026-10-15_10.pdf"), found[0].Artifact.Path)
	})
}

func TestArtifactStore_NewestModTime(t *testing.T) {
	t.Parallel()

	t.Run("is zero without artifacts", func(t *testing.T) {
		t.Parallel()

		store, _ := newArtifactStore(t)

		newest, err := store.NewestModTime(context.Background())

		require.NoError(t, err)
		assert.True(t, newest.IsZero())
	})

	t.Run("returns the latest modification time", func(t *testing.T) {
		t.Parallel()

		store, dir := newArtifactStore(t)
		older := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)
		touch(t, filepath.Join(dir, "ccp_section_12_2026-10-13_0.pdf"), older)
		touch(t, filepath.Join(dir, "ccp_section_13_2026-10-15_1.pdf"), newer)

		newest, err := store.NewestModTime(context.Background())

		require.NoError(t, err)
		assert.True(t, newer.Equal(newest))
	})
}
