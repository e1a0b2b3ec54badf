package core

import "errors"

// ErrInvalidTransition is returned when a caller attempts to move an
// AgentState to a status not reachable from its current one (spec §3).
var ErrInvalidTransition = errors.New("core: invalid agent status transition")

// Transition validates and applies a status change, returning
// ErrInvalidTransition if the edge is illegal.
func (s *AgentState) Transition(next AgentStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	s.Status = next
	return nil
}
