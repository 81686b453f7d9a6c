// Package domain defines the core types for the gantry motion engine.
package domain

// Vec2 is a point or displacement on the ground plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a point or displacement in space.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// TaskStatus represents the lifecycle stage of a task. The values double as
// the display strings shown to collaborators.
type TaskStatus string

const (
	StatusAwaitingSlicing TaskStatus = "Awaiting slicing"
	StatusInQueue         TaskStatus = "In queue"
	StatusInProgress      TaskStatus = "In progress"
	StatusComplete        TaskStatus = "Complete"
)

// ShapeKind discriminates the task shape variants.
type ShapeKind string

const (
	ShapePoint ShapeKind = "point"
	ShapeGrid  ShapeKind = "grid"
)

// Shape is the tagged variant describing where a task's work happens.
// Point uses Point; Grid uses BoxFrom/BoxTo and GridNX/GridNY. Spacing is
// derived from the box extent, and grid points start at BoxFrom.
type Shape struct {
	Kind    ShapeKind
	Point   Vec2
	BoxFrom Vec2
	BoxTo   Vec2
	GridNX  int
	GridNY  int
}

// PointShape builds a single-point task shape.
func PointShape(location Vec2) Shape {
	return Shape{Kind: ShapePoint, Point: location}
}

// GridShape builds a grid task shape over the box spanned by from and to.
func GridShape(from, to Vec2, nx, ny int) Shape {
	return Shape{Kind: ShapeGrid, BoxFrom: from, BoxTo: to, GridNX: nx, GridNY: ny}
}

// Task is one declarative unit of work. Operation and Toolhead are display
// only. ExpectedCommandCount is written exactly once, at slicing time, and
// drives status derivation from then on.
type Task struct {
	ID                   int64
	Operation            string
	Toolhead             string
	Shape                Shape
	Status               TaskStatus
	ExpectedCommandCount int
}

// CommandKind discriminates the motion command variants.
type CommandKind string

const (
	CommandMove     CommandKind = "move"
	CommandToolFire CommandKind = "tool_fire"
)

// MotionCommand is one primitive instruction derived from a task. A Move
// carries the target tool offset and frame position for all five degrees of
// freedom; a ToolFire carries only the task tag. Commands are immutable once
// appended to the stack.
type MotionCommand struct {
	Kind   CommandKind
	TaskID int64
	Tool   Vec3
	FrameX float64
	FrameY float64
}

// RobotState holds the mutable physical state of the robot. FramePosition is
// the ground-level reference corner of the frame; the frame only ever travels
// along x, so Y stays fixed for the robot's lifetime. ToolOffset is relative
// to that corner. Dimensions are width (local x), depth (local y) and the
// raise height of the tool.
type RobotState struct {
	FramePosition Vec2
	ToolOffset    Vec3
	Rotation      float64
	Dimensions    Vec3
}
