package motion

import (
	"testing"

	"github.com/farmm/gantry-engine/internal/domain"
)

func newTestExecutor(t *testing.T) (*Executor, *domain.RobotState, *Stack) {
	t.Helper()
	robot := &domain.RobotState{
		Dimensions: domain.Vec3{X: 0.4, Y: 1, Z: 0.6},
	}
	stack := NewStack()
	return NewExecutor(robot, stack, DefaultParams()), robot, stack
}

func TestTick_EmptyStackIsNoOp(t *testing.T) {
	e, robot, _ := newTestExecutor(t)
	before := *robot

	e.Tick()

	if e.State() != StateIdle {
		t.Errorf("State = %q, want idle", e.State())
	}
	if *robot != before {
		t.Errorf("robot state changed on empty tick: %+v", *robot)
	}
}

func TestTick_MoveCompletesInExactTicks(t *testing.T) {
	e, robot, stack := newTestExecutor(t)
	stack.Append(domain.MotionCommand{
		Kind:   domain.CommandMove,
		TaskID: 1,
		Tool:   domain.Vec3{X: 0.3},
	})

	// Tool displacement 0.3 at 0.1/tick: done after exactly 3 ticks.
	e.Tick()
	e.Tick()
	if e.State() != StateMoving {
		t.Fatalf("State after 2 ticks = %q, want moving", e.State())
	}
	e.Tick()

	if e.State() != StateIdle {
		t.Errorf("State after 3 ticks = %q, want idle", e.State())
	}
	if robot.ToolOffset.X != 0.3 {
		t.Errorf("ToolOffset.X = %v, want exactly 0.3", robot.ToolOffset.X)
	}
	if n := stack.CountForTask(1); n != 0 {
		t.Errorf("CountForTask(1) = %d, want 0 after completion", n)
	}
}

func TestTick_FrameMoveInterpolates(t *testing.T) {
	e, robot, stack := newTestExecutor(t)
	stack.Append(domain.MotionCommand{
		Kind:   domain.CommandMove,
		TaskID: 1,
		FrameX: 0.4,
	})

	// Frame displacement 0.4 at 0.2/tick: 2 ticks, midpoint after the first.
	e.Tick()
	if robot.FramePosition.X != 0.2 {
		t.Errorf("FramePosition.X after 1 tick = %v, want 0.2", robot.FramePosition.X)
	}
	e.Tick()
	if robot.FramePosition.X != 0.4 {
		t.Errorf("FramePosition.X after 2 ticks = %v, want 0.4", robot.FramePosition.X)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %q, want idle", e.State())
	}
}

func TestTick_SlowerGroupIsTheBottleneck(t *testing.T) {
	e, robot, stack := newTestExecutor(t)
	// Tool needs 0.2/0.1 = 2 ticks, frame needs 0.2/0.2 = 1 tick; the whole
	// move completes together after 2.
	stack.Append(domain.MotionCommand{
		Kind:   domain.CommandMove,
		TaskID: 1,
		Tool:   domain.Vec3{Y: 0.2},
		FrameX: 0.2,
	})

	e.Tick()
	if e.State() != StateMoving {
		t.Fatalf("State after 1 tick = %q, want moving", e.State())
	}
	if robot.FramePosition.X != 0.1 {
		t.Errorf("FramePosition.X at midpoint = %v, want 0.1", robot.FramePosition.X)
	}
	e.Tick()
	if e.State() != StateIdle {
		t.Errorf("State after 2 ticks = %q, want idle", e.State())
	}
	if robot.FramePosition.X != 0.2 || robot.ToolOffset.Y != 0.2 {
		t.Errorf("final pose = frame %v tool %v, want 0.2/0.2",
			robot.FramePosition.X, robot.ToolOffset.Y)
	}
}

func TestTick_ZeroDisplacementMoveFinishesImmediately(t *testing.T) {
	e, _, stack := newTestExecutor(t)
	stack.Append(domain.MotionCommand{Kind: domain.CommandMove, TaskID: 1})

	e.Tick()
	if e.State() != StateIdle {
		t.Errorf("State = %q, want idle after zero-displacement move", e.State())
	}
	if n := stack.CountForTask(1); n != 0 {
		t.Errorf("CountForTask(1) = %d, want 0", n)
	}
}

func TestTick_ToolFireTakesFiveTicks(t *testing.T) {
	e, robot, stack := newTestExecutor(t)
	robot.ToolOffset = domain.Vec3{X: 0.1, Y: 0.1}
	before := *robot
	stack.Append(domain.MotionCommand{Kind: domain.CommandToolFire, TaskID: 1})

	for i := 0; i < 4; i++ {
		e.Tick()
		if e.State() != StateToolFiring {
			t.Fatalf("State after %d ticks = %q, want tool_firing", i+1, e.State())
		}
		if n := stack.CountForTask(1); n != 1 {
			t.Fatalf("CountForTask(1) after %d ticks = %d, want 1 while firing", i+1, n)
		}
	}
	e.Tick()

	if e.State() != StateIdle {
		t.Errorf("State after 5 ticks = %q, want idle", e.State())
	}
	if *robot != before {
		t.Errorf("robot moved during tool fire: %+v", *robot)
	}
	if n := stack.CountForTask(1); n != 0 {
		t.Errorf("CountForTask(1) = %d, want 0", n)
	}
}

func TestStatusText(t *testing.T) {
	e, _, stack := newTestExecutor(t)
	if got := e.StatusText(); got != "Inactive" {
		t.Errorf("idle StatusText = %q, want Inactive", got)
	}

	stack.Append(
		domain.MotionCommand{Kind: domain.CommandMove, TaskID: 1, Tool: domain.Vec3{Z: 0.6}},
		domain.MotionCommand{Kind: domain.CommandMove, TaskID: 1, Tool: domain.Vec3{Z: 0.6}, FrameX: 1},
		domain.MotionCommand{Kind: domain.CommandMove, TaskID: 1, Tool: domain.Vec3{Y: 0.4, Z: 0.6}, FrameX: 2},
		domain.MotionCommand{Kind: domain.CommandToolFire, TaskID: 1},
	)

	e.Tick()
	if got := e.StatusText(); got != "Tool moving inside frame" {
		t.Errorf("tool-only move StatusText = %q", got)
	}
	drain(e)

	e.Tick()
	if got := e.StatusText(); got != "Frame moving, tool stationary" {
		t.Errorf("frame-only move StatusText = %q", got)
	}
	drain(e)

	e.Tick()
	if got := e.StatusText(); got != "Both tool and frame moving" {
		t.Errorf("combined move StatusText = %q", got)
	}
	drain(e)

	e.Tick()
	if got := e.StatusText(); got != "Tool running" {
		t.Errorf("tool fire StatusText = %q", got)
	}
}

// drain ticks until the current command finishes.
func drain(e *Executor) {
	for i := 0; e.State() != StateIdle && i < 100; i++ {
		e.Tick()
	}
}
