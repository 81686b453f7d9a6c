// Package sim wires the queue manager, slicer, command stack and executor
// into the single-threaded runtime actor that owns all mutable robot state.
package sim

import (
	"github.com/farmm/gantry-engine/internal/domain"
	"github.com/farmm/gantry-engine/internal/kinematics"
	"github.com/farmm/gantry-engine/internal/motion"
	"github.com/farmm/gantry-engine/internal/tasks"
)

// Runtime owns the RobotState and the task/command pipeline. It is not safe
// for concurrent use; exactly one caller advances it via Submit and Step.
type Runtime struct {
	robot    domain.RobotState
	stack    *motion.Stack
	manager  *tasks.Manager
	slicer   *motion.Slicer
	executor *motion.Executor

	// Task ids admitted but not yet handed to the slicer. A failed slice is
	// recorded and never retried automatically; the task stays visible as
	// AwaitingSlicing for the collaborator to re-submit or drop.
	unsliced  []int64
	sliceErrs map[int64]string
}

// New builds a runtime around the robot's initial state.
func New(robot domain.RobotState, params motion.Params) *Runtime {
	r := &Runtime{
		robot:     robot,
		stack:     motion.NewStack(),
		manager:   tasks.NewManager(),
		slicer:    &motion.Slicer{Dimensions: robot.Dimensions},
		sliceErrs: make(map[int64]string),
	}
	r.executor = motion.NewExecutor(&r.robot, r.stack, params)
	return r
}

// Submit admits a batch of declarative tasks. Admitted tasks are sliced on
// the next Step.
func (r *Runtime) Submit(batch []domain.Task) error {
	if err := r.manager.Admit(batch); err != nil {
		return err
	}
	for _, t := range batch {
		r.unsliced = append(r.unsliced, t.ID)
	}
	return nil
}

// Step runs one cooperative cycle in the required order: slice
// newly-admitted tasks (recording the step count before appending commands),
// refresh task statuses, then tick the executor.
func (r *Runtime) Step() error {
	r.sliceAdmitted()
	if err := r.manager.RefreshStatuses(r.stack); err != nil {
		return err
	}
	r.executor.Tick()
	return nil
}

// sliceAdmitted expands every task admitted since the last cycle. One task's
// failure never blocks its siblings.
func (r *Runtime) sliceAdmitted() {
	for _, id := range r.unsliced {
		task, ok := r.manager.Find(id)
		if !ok {
			continue
		}
		cmds, steps, err := r.slicer.Slice(task, motion.TailOf(r.stack, r.robot))
		if err != nil {
			r.sliceErrs[id] = err.Error()
			continue
		}
		if err := r.manager.MarkSliced(id, steps); err != nil {
			r.sliceErrs[id] = err.Error()
			continue
		}
		r.stack.Append(cmds...)
	}
	r.unsliced = r.unsliced[:0]
}

// Robot returns the robot's current state.
func (r *Runtime) Robot() domain.RobotState {
	return r.robot
}

// TaskView is one active task as shown to collaborators.
type TaskView struct {
	ID         int64
	Operation  string
	Toolhead   string
	Shape      domain.ShapeKind
	Status     domain.TaskStatus
	SliceError string
}

// Snapshot is the read-only view a collaborator consumes each cycle.
type Snapshot struct {
	FramePosition   domain.Vec2
	ToolOffset      domain.Vec3
	Rotation        float64
	Dimensions      domain.Vec3
	WorldToolPoint  domain.Vec3
	FrameCorners    [8]domain.Vec3
	Tasks           []TaskView
	StatusText      string
	PendingCommands int
}

// Snapshot assembles the current outbound view: robot geometry (with the
// derived world tool point and footprint corners recomputed on demand), the
// active task list with display statuses, and the executor status text.
func (r *Runtime) Snapshot() Snapshot {
	active := r.manager.Active()
	views := make([]TaskView, len(active))
	for i, t := range active {
		views[i] = TaskView{
			ID:         t.ID,
			Operation:  t.Operation,
			Toolhead:   t.Toolhead,
			Shape:      t.Shape.Kind,
			Status:     t.Status,
			SliceError: r.sliceErrs[t.ID],
		}
	}
	return Snapshot{
		FramePosition:   r.robot.FramePosition,
		ToolOffset:      r.robot.ToolOffset,
		Rotation:        kinematics.NormalizeRotation(r.robot.Rotation),
		Dimensions:      r.robot.Dimensions,
		WorldToolPoint:  kinematics.ToolPoint(r.robot.FramePosition, r.robot.ToolOffset, r.robot.Rotation),
		FrameCorners:    kinematics.FrameCorners(r.robot.FramePosition, r.robot.Rotation, r.robot.Dimensions),
		Tasks:           views,
		StatusText:      r.executor.StatusText(),
		PendingCommands: r.stack.Len(),
	}
}

// Idle reports whether the runtime has no queued work left: no pending or
// in-flight commands, and no tasks awaiting slicing.
func (r *Runtime) Idle() bool {
	if r.stack.Len() > 0 || len(r.unsliced) > 0 {
		return false
	}
	if _, busy := r.stack.InFlight(); busy {
		return false
	}
	return r.executor.State() == motion.StateIdle
}
