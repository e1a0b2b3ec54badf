package core_test

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentState(t *testing.T) {
	s := core.NewAgentState("researcher#1", 10)
	assert.Equal(t, core.StatusIdle, s.Status)
	assert.Equal(t, 10, s.MaxIterations)
	assert.Empty(t, s.PendingChildren)
}

func TestSuspendConsistencyWithPendingChildren(t *testing.T) {
	s := core.NewAgentState("a#1", 10)
	s.Status = core.StatusSuspended
	assert.False(t, s.IsSuspendConsistent())

	s.AddPendingChild("b#1")
	assert.True(t, s.IsSuspendConsistent())
}

func TestSuspendConsistencyWithLastAction(t *testing.T) {
	s := core.NewAgentState("a#1", 10)
	s.Status = core.StatusSuspended
	wait := core.NewWaitAction("waiting on peer")
	s.LastAction = &wait
	assert.True(t, s.IsSuspendConsistent())

	finish := core.NewFinishAction("", "done")
	s.LastAction = &finish
	assert.False(t, s.IsSuspendConsistent())
}

func TestAddAndRemovePendingChild(t *testing.T) {
	s := core.NewAgentState("a#1", 10)
	s.AddPendingChild("child#1")
	s.AddPendingChild("child#2")
	remaining := s.RemovePendingChild("child#1")
	assert.Equal(t, 1, remaining)
	remaining = s.RemovePendingChild("child#2")
	assert.Equal(t, 0, remaining)
}

func TestTransitionValid(t *testing.T) {
	s := core.NewAgentState("a#1", 10)
	require.NoError(t, s.Transition(core.StatusRunning))
	assert.Equal(t, core.StatusRunning, s.Status)
}

func TestTransitionInvalid(t *testing.T) {
	s := core.NewAgentState("a#1", 10)
	err := s.Transition(core.StatusCompleted)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	assert.Equal(t, core.StatusIdle, s.Status)
}
