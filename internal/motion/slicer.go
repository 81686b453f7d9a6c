package motion

import (
	"math"

	"github.com/farmm/gantry-engine/internal/domain"
)

// TailPosition is the pose the robot will hold once all previously queued
// motion has executed. Slicing always starts from here, never from the live
// robot state, so tasks queued back to back chain correctly.
type TailPosition struct {
	Tool  domain.Vec3
	Frame domain.Vec2
}

// TailOf derives the tail position from the stack, falling back to the
// robot's current pose when no Move is queued.
func TailOf(s *Stack, robot domain.RobotState) TailPosition {
	if cmd, ok := s.lastMove(); ok {
		return TailPosition{
			Tool:  cmd.Tool,
			Frame: domain.Vec2{X: cmd.FrameX, Y: cmd.FrameY},
		}
	}
	return TailPosition{Tool: robot.ToolOffset, Frame: robot.FramePosition}
}

// Slicer expands one declarative task into the ordered command sequence that
// visits each reachable target point. It needs only the frame dimensions:
// height for the raised tool pose, depth for the reachable band, width for
// centering the frame on the task envelope.
type Slicer struct {
	Dimensions domain.Vec3
}

// Slice converts a task into motion commands starting from the tail
// position. It returns the commands and the step count the caller must
// record on the task before appending the commands to the shared stack.
//
// The sequence is: a neutral move (tool fully raised, lateral offset zeroed,
// frame unchanged) so end switches can trigger regardless of where the
// previous task finished; a frame move centering the frame on the reachable
// points' centroid; then per point, in resolution order: move over, lower,
// fire, raise.
func (sl *Slicer) Slice(task domain.Task, tail TailPosition) ([]domain.MotionCommand, int, error) {
	height := sl.Dimensions.Z

	neutral := domain.MotionCommand{
		Kind:   domain.CommandMove,
		TaskID: task.ID,
		Tool:   domain.Vec3{X: tail.Tool.X, Y: 0, Z: height},
		FrameX: tail.Frame.X,
		FrameY: tail.Frame.Y,
	}
	cmds := []domain.MotionCommand{neutral}

	points, err := resolveTargets(task.Shape)
	if err != nil {
		return nil, 0, err
	}

	// The frame only travels along x, so points outside the frame's fixed
	// y-extent can never be reached and are dropped.
	bandLo := tail.Frame.Y
	bandHi := tail.Frame.Y + sl.Dimensions.Y
	var reachable []domain.Vec2
	var sumX, sumY float64
	for _, p := range points {
		if p.Y < bandLo || p.Y > bandHi {
			continue
		}
		reachable = append(reachable, p)
		sumX += p.X
		sumY += p.Y
	}
	if len(reachable) == 0 {
		return nil, 0, domain.ErrNoReachablePoints
	}

	centroidX := sumX / float64(len(reachable))
	frameX := centroidX - sl.Dimensions.X/2

	cmds = append(cmds, domain.MotionCommand{
		Kind:   domain.CommandMove,
		TaskID: task.ID,
		Tool:   neutral.Tool,
		FrameX: frameX,
		FrameY: tail.Frame.Y,
	})

	for _, p := range reachable {
		over := domain.Vec3{X: p.X - frameX, Y: p.Y - tail.Frame.Y, Z: height}
		lowered := domain.Vec3{X: over.X, Y: over.Y, Z: 0}
		cmds = append(cmds,
			domain.MotionCommand{Kind: domain.CommandMove, TaskID: task.ID, Tool: over, FrameX: frameX, FrameY: tail.Frame.Y},
			domain.MotionCommand{Kind: domain.CommandMove, TaskID: task.ID, Tool: lowered, FrameX: frameX, FrameY: tail.Frame.Y},
			domain.MotionCommand{Kind: domain.CommandToolFire, TaskID: task.ID},
			domain.MotionCommand{Kind: domain.CommandMove, TaskID: task.ID, Tool: over, FrameX: frameX, FrameY: tail.Frame.Y},
		)
	}

	steps := 2 + 4*len(reachable)
	return cmds, steps, nil
}

// resolveTargets expands a shape into its target points. Grid points are
// produced row-major: outer loop over x, inner over y, starting at BoxFrom.
func resolveTargets(shape domain.Shape) ([]domain.Vec2, error) {
	switch shape.Kind {
	case domain.ShapePoint:
		return []domain.Vec2{shape.Point}, nil
	case domain.ShapeGrid:
		if shape.GridNX <= 0 || shape.GridNY <= 0 {
			return nil, domain.ErrGridCountsInvalid
		}
		xSpacing := math.Abs(shape.BoxTo.X-shape.BoxFrom.X) / float64(shape.GridNX)
		ySpacing := math.Abs(shape.BoxTo.Y-shape.BoxFrom.Y) / float64(shape.GridNY)

		points := make([]domain.Vec2, 0, shape.GridNX*shape.GridNY)
		for x := 0; x < shape.GridNX; x++ {
			for y := 0; y < shape.GridNY; y++ {
				points = append(points, domain.Vec2{
					X: shape.BoxFrom.X + float64(x)*xSpacing,
					Y: shape.BoxFrom.Y + float64(y)*ySpacing,
				})
			}
		}
		return points, nil
	default:
		return nil, domain.ErrUnknownShape
	}
}
