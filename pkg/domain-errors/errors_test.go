package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolld/pkg/platform/sentinel"
)

func TestHasCode(t *testing.T) {
	t.Run("matches the code on a new error", func(t *testing.T) {
		err := New(CodeNotFound, "account not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches the outermost code on a wrapped error", func(t *testing.T) {
		err := Wrap(sentinel.ErrConflict, CodeConflict, "email already registered")
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("reports false for uncoded errors", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	t.Run("preserves the sentinel underneath", func(t *testing.T) {
		err := Wrap(fmt.Errorf("account missing: %w", sentinel.ErrNotFound), CodeNotFound, "lookup failed")
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("returns nil for a nil cause", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})
}

func TestMessage(t *testing.T) {
	err := Wrap(sentinel.ErrGone, CodeGone, "account removed")

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "account removed", de.Message())
	assert.Equal(t, "account removed: gone", de.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("unclassified")))
	assert.Equal(t, CodeValidation, CodeOf(Newf(CodeValidation, "field %q missing", "email")))
}
