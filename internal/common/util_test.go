package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	for _, n := range []int{0, 12, 32} {
		assert.Len(t, GenerateRandByteArray(n), n)
	}
	a, b := GenerateRandByteArray(16), GenerateRandByteArray(16)
	require.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("parse %q: %w", "BOGUS", ErrUnknownStatus)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.False(t, errors.Is(err, ErrUnknownNamespace))
}
