// Package tasks owns the ordered set of active tasks and derives each task's
// lifecycle status from how many of its commands remain unexecuted.
package tasks

import (
	"fmt"

	"github.com/farmm/gantry-engine/internal/domain"
)

// CommandCounter reports how many commands tagged with a task id have not
// yet fully executed. The motion stack satisfies this, counting pending and
// in-flight commands alike.
type CommandCounter interface {
	CountForTask(id int64) int
}

// Manager is the task queue state machine. Tasks enter via Admit in
// submission order (first in, first out; no prioritization) and leave when
// RefreshStatuses derives Complete for them.
type Manager struct {
	active []*domain.Task
	index  map[int64]*domain.Task
}

// NewManager returns an empty task queue manager.
func NewManager() *Manager {
	return &Manager{index: make(map[int64]*domain.Task)}
}

// Admit appends tasks to the active set with status AwaitingSlicing,
// preserving submission order. A task id already in the active set is
// rejected; earlier tasks in the batch stay admitted.
func (m *Manager) Admit(batch []domain.Task) error {
	for _, t := range batch {
		if _, ok := m.index[t.ID]; ok {
			return domain.NewRobotError(domain.ErrDuplicateTask.Code,
				fmt.Sprintf("task %d already admitted", t.ID))
		}
		admitted := t
		admitted.Status = domain.StatusAwaitingSlicing
		admitted.ExpectedCommandCount = 0
		m.active = append(m.active, &admitted)
		m.index[admitted.ID] = &admitted
	}
	return nil
}

// MarkSliced records a task's expected command count, exactly once, before
// its commands are appended to the shared stack. Ordering matters: the
// status derivation must never observe commands for a task whose expected
// count is still zero.
func (m *Manager) MarkSliced(id int64, stepCount int) error {
	t, ok := m.index[id]
	if !ok {
		return domain.NewRobotError(domain.ErrTaskNotFound.Code,
			fmt.Sprintf("task %d not found in active set", id))
	}
	if t.ExpectedCommandCount != 0 {
		return domain.NewRobotError(domain.ErrTaskAlreadySliced.Code,
			fmt.Sprintf("task %d has already been sliced", id))
	}
	if stepCount <= 0 {
		return domain.ErrStepCountInvalid
	}
	t.ExpectedCommandCount = stepCount
	return nil
}

// RefreshStatuses recomputes every active task's status from the per-task
// command counts, then drops Complete tasks from the active set. It is
// idempotent: with no intervening command consumption, a second call leaves
// the active set and every status unchanged.
//
// A count exceeding a task's expected count, or a nonzero count on an
// unsliced task, is a programming-contract violation and is reported as an
// error rather than silently folded into a status.
func (m *Manager) RefreshStatuses(counter CommandCounter) error {
	remaining := m.active[:0]
	for _, t := range m.active {
		count := counter.CountForTask(t.ID)

		if t.ExpectedCommandCount == 0 {
			if count > 0 {
				return domain.NewRobotError(domain.ErrCommandsBeforeSlice.Code,
					fmt.Sprintf("task %d has %d commands but no recorded step count", t.ID, count))
			}
			t.Status = domain.StatusAwaitingSlicing
			remaining = append(remaining, t)
			continue
		}

		switch {
		case count > t.ExpectedCommandCount:
			return domain.NewRobotError(domain.ErrCountExceedsExpected.Code,
				fmt.Sprintf("task %d has %d commands, expected at most %d", t.ID, count, t.ExpectedCommandCount))
		case count == t.ExpectedCommandCount:
			t.Status = domain.StatusInQueue
		case count > 0:
			t.Status = domain.StatusInProgress
		default:
			t.Status = domain.StatusComplete
		}

		if t.Status == domain.StatusComplete {
			delete(m.index, t.ID)
			continue
		}
		remaining = append(remaining, t)
	}
	// Zero the dropped tail so completed tasks do not linger in the backing
	// array.
	for i := len(remaining); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = remaining
	return nil
}

// Active returns a copy of the active tasks in submission order.
func (m *Manager) Active() []domain.Task {
	out := make([]domain.Task, len(m.active))
	for i, t := range m.active {
		out[i] = *t
	}
	return out
}

// Find looks up an active task by id.
func (m *Manager) Find(id int64) (domain.Task, bool) {
	t, ok := m.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return *t, true
}
