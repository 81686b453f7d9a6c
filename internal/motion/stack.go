// Package motion implements the shared motion command stack, the slicer that
// expands tasks into commands, and the tick-driven executor that consumes
// them.
package motion

import "github.com/farmm/gantry-engine/internal/domain"

// Stack is the ordered FIFO of pending motion commands. The slicer appends
// at the tail, the executor takes from the head, and the queue manager counts
// commands by task id. A command taken by the executor stays counted as
// in-flight until it is released on completion, so per-task counts only drop
// when a command has fully executed.
type Stack struct {
	pending  []domain.MotionCommand
	inFlight *domain.MotionCommand
}

// NewStack returns an empty command stack.
func NewStack() *Stack {
	return &Stack{}
}

// Append adds commands at the tail.
func (s *Stack) Append(cmds ...domain.MotionCommand) {
	s.pending = append(s.pending, cmds...)
}

// Len reports the number of pending commands, excluding any in-flight one.
func (s *Stack) Len() int {
	return len(s.pending)
}

// Take pops the front command and marks it in-flight. It fails if a command
// is already in flight.
func (s *Stack) Take() (domain.MotionCommand, error) {
	if s.inFlight != nil {
		return domain.MotionCommand{}, domain.ErrCommandInFlight
	}
	if len(s.pending) == 0 {
		return domain.MotionCommand{}, domain.ErrStackEmpty
	}
	cmd := s.pending[0]
	s.pending = s.pending[1:]
	s.inFlight = &cmd
	return cmd, nil
}

// Release marks the in-flight command as fully executed, removing it from
// per-task counts. Releasing with nothing in flight is a no-op.
func (s *Stack) Release() {
	s.inFlight = nil
}

// InFlight returns the command currently being executed, if any.
func (s *Stack) InFlight() (domain.MotionCommand, bool) {
	if s.inFlight == nil {
		return domain.MotionCommand{}, false
	}
	return *s.inFlight, true
}

// CountForTask counts commands tagged with the given task id, including the
// in-flight command.
func (s *Stack) CountForTask(id int64) int {
	n := 0
	for _, cmd := range s.pending {
		if cmd.TaskID == id {
			n++
		}
	}
	if s.inFlight != nil && s.inFlight.TaskID == id {
		n++
	}
	return n
}

// lastMove returns the most recently appended Move command, scanning past
// any trailing ToolFires and falling back to the in-flight command.
func (s *Stack) lastMove() (domain.MotionCommand, bool) {
	for i := len(s.pending) - 1; i >= 0; i-- {
		if s.pending[i].Kind == domain.CommandMove {
			return s.pending[i], true
		}
	}
	if s.inFlight != nil && s.inFlight.Kind == domain.CommandMove {
		return *s.inFlight, true
	}
	return domain.MotionCommand{}, false
}
