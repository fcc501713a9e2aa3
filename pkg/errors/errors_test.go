package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsKind(t *testing.T) {
	err := Wrap(ErrValidation, "reason must be at least 10 characters")
	require.True(t, Is(err, ErrValidation))
	require.False(t, Is(err, ErrNotFound))
	require.Equal(t, "reason must be at least 10 characters", err.Error())

	outer := fmt.Errorf("create report: %w", Wrapf(ErrNotFound, "user %s not found", "abc"))
	require.True(t, Is(outer, ErrNotFound))
}
