package tokencount_test

import (
	"testing"

	"github.com/hupe1980/agentcore/tokencount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimple(t *testing.T) {
	c, err := tokencount.New("simple")
	require.NoError(t, err)
	_, ok := c.(*tokencount.SimpleCounter)
	assert.True(t, ok)
}

func TestNewDefaultsToSimple(t *testing.T) {
	c, err := tokencount.New("")
	require.NoError(t, err)
	_, ok := c.(*tokencount.SimpleCounter)
	assert.True(t, ok)
}

func TestNewPrecise(t *testing.T) {
	c, err := tokencount.New("precise")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewAutoNeverFails(t *testing.T) {
	c, err := tokencount.New("auto")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewInvalidStrategy(t *testing.T) {
	_, err := tokencount.New("bogus")
	assert.Error(t, err)
}
