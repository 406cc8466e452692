package rulefetch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/rulefetch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := rulefetch.Errorf(rulefetch.ENOTFOUND, "manifest %q not found", "rules.json")

	assert.Equal(t, rulefetch.ENOTFOUND, rulefetch.ErrorCode(err))
	assert.Equal(t, "manifest \"rules.json\" not found", rulefetch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rulefetch.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rulefetch.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading: %w", rulefetch.Errorf(rulefetch.EINVALID, "bad input"))

	assert.Equal(t, rulefetch.EINVALID, rulefetch.ErrorCode(err))
	assert.Equal(t, "bad input", rulefetch.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, rulefetch.EINTERNAL, rulefetch.ErrorCode(err))
	assert.Equal(t, "Internal error.", rulefetch.ErrorMessage(err))
}
