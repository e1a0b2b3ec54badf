package tokencount_test

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/tokencount"
	"github.com/stretchr/testify/assert"
)

func TestPreciseCounterCountText(t *testing.T) {
	c := tokencount.NewPreciseCounter()
	got := c.CountText("hello world")
	assert.Greater(t, got, 0)
	assert.Equal(t, 0, c.CountText(""))
}

func TestPreciseCounterUnknownModelFallsBack(t *testing.T) {
	c := tokencount.NewPreciseCounter()
	messages := []core.ConversationMessage{core.NewUserMessage("hi there")}
	got := c.CountMessages(messages, "some-unrecognized-model-name")
	assert.Greater(t, got, 0)
}

func TestPreciseCounterRepeatedCountsMatch(t *testing.T) {
	c := tokencount.NewPreciseCounter()
	first := c.CountText("repeat this string")
	second := c.CountText("repeat this string")
	assert.Equal(t, first, second)
}
