package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey_ArgumentSkipsPrompt(t *testing.T) {
	prompted := false
	key, err := resolveKey("  secret  ", func() (string, error) {
		prompted = true
		return "", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "secret", key)
	assert.False(t, prompted)
}

func TestResolveKey_PromptsWithoutArgument(t *testing.T) {
	key, err := resolveKey("", func() (string, error) { return "typed\n", nil })

	require.NoError(t, err)
	assert.Equal(t, "typed", key)
}

func TestResolveKey_Errors(t *testing.T) {
	aborted := errors.New("user aborted")

	_, err := resolveKey("", func() (string, error) { return "", aborted })
	assert.ErrorIs(t, err, aborted)

	_, err = resolveKey("   ", func() (string, error) { return " ", nil })
	assert.ErrorIs(t, err, errEmptyKey)
}
