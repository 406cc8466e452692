package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

// newMethodStats returns a service whose clock advances one second per call.
func newMethodStats(t *testing.T) *sqlite.MethodStatsService {
	t.Helper()
	svc := sqlite.NewMethodStatsService(setupTestDB(t))
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return svc
}

func TestMethodStatsService_RecordAttempt(t *testing.T) {
	t.Parallel()

	t.Run("accumulates successes and failures", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()

		require.NoError(t, svc.RecordAttempt(ctx, "437c", "download_link", true))
		require.NoError(t, svc.RecordAttempt(ctx, "437c", "download_link", true))
		require.NoError(t, svc.RecordAttempt(ctx, "437c", "download_link", false))

		stats, err := svc.FindMethodStats(ctx, "437c")

		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "download_link", stats[0].Method)
		assert.Equal(t, 2, stats[0].Successes)
		assert.Equal(t, 1, stats[0].Failures)
		assert.Equal(t, time.Date(2026, 10, 15, 8, 0, 3, 0, time.UTC), stats[0].UpdatedAt.UTC())
	})

	t.Run("requires rule number and method", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()

		err := svc.RecordAttempt(ctx, "", "download_link", true)
		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))

		err = svc.RecordAttempt(ctx, "12", " ", true)
		assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
	})
}

func TestMethodStatsService_FindMethodStats(t *testing.T) {
	t.Parallel()

	t.Run("returns every section when rule is empty", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()
		require.NoError(t, svc.RecordAttempt(ctx, "12", "render_document", true))
		require.NoError(t, svc.RecordAttempt(ctx, "1005", "download_link", true))
		require.NoError(t, svc.RecordAttempt(ctx, "1005", "print_control", false))

		stats, err := svc.FindMethodStats(ctx, "")

		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, "1005", stats[0].RuleNumber)
		assert.Equal(t, "download_link", stats[0].Method)
		assert.Equal(t, "print_control", stats[1].Method)
		assert.Equal(t, "12", stats[2].RuleNumber)
	})

	t.Run("returns empty for unknown section", func(t *testing.T) {
		t.Parallel()

		stats, err := newMethodStats(t).FindMethodStats(context.Background(), "9999")

		require.NoError(t, err)
		assert.Empty(t, stats)
	})
}

func TestMethodStatsService_PreferredMethod(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND without successes", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()
		require.NoError(t, svc.RecordAttempt(ctx, "12", "download_link", false))

		_, err := svc.PreferredMethod(ctx, "12")

		assert.Equal(t, rulefetch.ENOTFOUND, rulefetch.ErrorCode(err))
	})

	t.Run("prefers the most successes", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()
		require.NoError(t, svc.RecordAttempt(ctx, "12", "download_link", true))
		require.NoError(t, svc.RecordAttempt(ctx, "12", "render_document", true))
		require.NoError(t, svc.RecordAttempt(ctx, "12", "render_document", true))

		method, err := svc.PreferredMethod(ctx, "12")

		require.NoError(t, err)
		assert.Equal(t, "render_document", method)
	})

	t.Run("breaks ties by fewer failures", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()
		require.NoError(t, svc.RecordAttempt(ctx, "12", "print_control", true))
		require.NoError(t, svc.RecordAttempt(ctx, "12", "print_control", false))
		require.NoError(t, svc.RecordAttempt(ctx, "12", "download_link", true))

		method, err := svc.PreferredMethod(ctx, "12")

		require.NoError(t, err)
		assert.Equal(t, "download_link", method)
	})

	t.Run("breaks remaining ties by most recent", func(t *testing.T) {
		t.Parallel()

		svc := newMethodStats(t)
		ctx := context.Background()
		require.NoError(t, svc.RecordAttempt(ctx, "12", "download_link", true))
		require.NoError(t, svc.RecordAttempt(ctx, "12", "script_trigger", true))

		method, err := svc.PreferredMethod(ctx, "12")

		require.NoError(t, err)
		assert.Equal(t, "script_trigger", method)
	})
}
