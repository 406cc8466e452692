package main

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyBrowser(t *testing.T) {
	t.Parallel()

	t.Run("opens once on first page", func(t *testing.T) {
		t.Parallel()

		opened := 0
		closed := 0
		page := &mock.Page{}
		b := &lazyBrowser{open: func() (rulefetch.Browser, error) {
			opened++
			return &mock.Browser{
				NewPageFn: func(context.Context) (rulefetch.Page, error) { return page, nil },
				CloseFn:   func() error { closed++; return nil },
			}, nil
		}}

		for range 3 {
			got, err := b.NewPage(context.Background())
			require.NoError(t, err)
			assert.Same(t, page, got)
		}
		require.NoError(t, b.Close())

		assert.Equal(t, 1, opened)
		assert.Equal(t, 1, closed)
	})

	t.Run("close without use does nothing", func(t *testing.T) {
		t.Parallel()

		b := &lazyBrowser{open: func() (rulefetch.Browser, error) {
			t.Error("browser opened")
			return nil, nil
		}}

		assert.NoError(t, b.Close())
	})

	t.Run("remembers launch failure", func(t *testing.T) {
		t.Parallel()

		opened := 0
		b := &lazyBrowser{open: func() (rulefetch.Browser, error) {
			opened++
			return nil, errors.New("chrome not found")
		}}

		_, err := b.NewPage(context.Background())
		assert.ErrorContains(t, err, "chrome not found")
		_, err = b.NewPage(context.Background())
		assert.Error(t, err)
		assert.Equal(t, 1, opened)
		assert.NoError(t, b.Close())
	})
}
