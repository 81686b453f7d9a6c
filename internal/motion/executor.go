package motion

import "github.com/farmm/gantry-engine/internal/domain"

// ExecState represents the executor's state machine states.
type ExecState string

const (
	StateIdle       ExecState = "idle"
	StateMoving     ExecState = "moving"
	StateToolFiring ExecState = "tool_firing"
)

// Params holds the motion timing parameters, in distance units per tick and
// ticks respectively.
type Params struct {
	ToolSpeed     float64
	FrameSpeed    float64
	ToolFireTicks int
}

// DefaultParams returns the stock gantry timing: tool 0.1/tick, frame
// 0.2/tick, tool fire 5 ticks.
func DefaultParams() Params {
	return Params{ToolSpeed: 0.1, FrameSpeed: 0.2, ToolFireTicks: 5}
}

// pose captures the five scalar degrees of freedom of a Move: tool x/y/z and
// frame x/y.
type pose struct {
	Tool  domain.Vec3
	Frame domain.Vec2
}

// Executor advances the robot's physical state command-by-command from the
// front of the stack, one discrete tick at a time. It is the only component
// that mutates RobotState.
type Executor struct {
	params Params
	robot  *domain.RobotState
	stack  *Stack

	state    ExecState
	start    pose
	target   pose
	required float64
	elapsed  int
}

// NewExecutor wires an executor to the robot it drives and the stack it
// consumes.
func NewExecutor(robot *domain.RobotState, stack *Stack, params Params) *Executor {
	return &Executor{params: params, robot: robot, stack: stack, state: StateIdle}
}

// State returns the current state machine state.
func (e *Executor) State() ExecState {
	return e.state
}

// Tick advances the executor by one simulation step. When idle with commands
// pending, the front command is taken and begins executing on the same tick;
// a tick with an empty stack is a no-op.
func (e *Executor) Tick() {
	if e.state == StateIdle {
		if !e.begin() {
			return
		}
	}

	switch e.state {
	case StateMoving:
		e.elapsed++
		if e.required <= 0 {
			e.finishMove()
			return
		}
		progress := float64(e.elapsed) / e.required
		if progress >= 1 {
			e.finishMove()
			return
		}
		e.robot.ToolOffset = lerp3(e.start.Tool, e.target.Tool, progress)
		e.robot.FramePosition = lerp2(e.start.Frame, e.target.Frame, progress)
	case StateToolFiring:
		e.elapsed++
		if e.elapsed >= e.params.ToolFireTicks {
			e.state = StateIdle
			e.stack.Release()
		}
	}
}

// begin takes the front command and arms the corresponding state. It reports
// whether a command was started.
func (e *Executor) begin() bool {
	if e.stack.Len() == 0 {
		return false
	}
	cmd, err := e.stack.Take()
	if err != nil {
		return false
	}

	e.elapsed = 0
	switch cmd.Kind {
	case domain.CommandToolFire:
		e.state = StateToolFiring
	case domain.CommandMove:
		e.state = StateMoving
		e.start = pose{Tool: e.robot.ToolOffset, Frame: e.robot.FramePosition}
		e.target = pose{Tool: cmd.Tool, Frame: domain.Vec2{X: cmd.FrameX, Y: cmd.FrameY}}
		e.required = e.requiredTicks()
	}
	return true
}

// finishMove snaps the robot exactly onto the target and releases the
// command.
func (e *Executor) finishMove() {
	e.robot.ToolOffset = e.target.Tool
	e.robot.FramePosition = e.target.Frame
	e.state = StateIdle
	e.stack.Release()
}

// requiredTicks computes a Move's duration. The move completes as a whole,
// keyed to whichever axis group is slower: the largest per-axis tool
// displacement at tool speed, or the largest frame displacement at frame
// speed.
func (e *Executor) requiredTicks() float64 {
	toolDist := max3(
		abs(e.target.Tool.X-e.start.Tool.X),
		abs(e.target.Tool.Y-e.start.Tool.Y),
		abs(e.target.Tool.Z-e.start.Tool.Z),
	)
	frameDist := abs(e.target.Frame.X - e.start.Frame.X)
	if d := abs(e.target.Frame.Y - e.start.Frame.Y); d > frameDist {
		frameDist = d
	}
	toolTicks := toolDist / e.params.ToolSpeed
	frameTicks := frameDist / e.params.FrameSpeed
	if toolTicks > frameTicks {
		return toolTicks
	}
	return frameTicks
}

// StatusText derives the display status from the executor state and which
// axis groups the current Move displaces. Reporting convenience only.
func (e *Executor) StatusText() string {
	switch e.state {
	case StateToolFiring:
		return "Tool running"
	case StateMoving:
		toolMoving := e.start.Tool != e.target.Tool
		frameMoving := e.start.Frame != e.target.Frame
		switch {
		case toolMoving && !frameMoving:
			return "Tool moving inside frame"
		case frameMoving && !toolMoving:
			return "Frame moving, tool stationary"
		case toolMoving && frameMoving:
			return "Both tool and frame moving"
		}
	}
	return "Inactive"
}

func lerp2(a, b domain.Vec2, t float64) domain.Vec2 {
	return domain.Vec2{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}

func lerp3(a, b domain.Vec3, t float64) domain.Vec3 {
	return domain.Vec3{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
