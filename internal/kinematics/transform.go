// Package kinematics provides the pure geometric transforms mapping frame
// position, tool offset and frame rotation to world-space points.
package kinematics

import (
	"math"

	"github.com/farmm/gantry-engine/internal/domain"
)

// ToolPoint returns the world-space position of the tool tip. The tool
// offset's (x, y) is rotated by the frame rotation about the frame's
// reference corner and added to the frame position; z passes through
// unchanged because the frame sits on the ground.
func ToolPoint(frame domain.Vec2, tool domain.Vec3, rotationDeg float64) domain.Vec3 {
	sin, cos := math.Sincos(rotationDeg * math.Pi / 180)
	return domain.Vec3{
		X: frame.X + tool.X*cos - tool.Y*sin,
		Y: frame.Y + tool.Y*cos + tool.X*sin,
		Z: tool.Z,
	}
}

// FrameCorners returns the eight corners of the frame footprint: the four
// ground corners (reference corner, +depth along local y, +width along local
// x, then both) followed by the same four raised by the frame height.
func FrameCorners(frame domain.Vec2, rotationDeg float64, dims domain.Vec3) [8]domain.Vec3 {
	sin, cos := math.Sincos(rotationDeg * math.Pi / 180)

	widthX, widthY := dims.X*cos, dims.X*sin
	depthX, depthY := -dims.Y*sin, dims.Y*cos

	var corners [8]domain.Vec3
	corners[0] = domain.Vec3{X: frame.X, Y: frame.Y}
	corners[1] = domain.Vec3{X: frame.X + depthX, Y: frame.Y + depthY}
	corners[2] = domain.Vec3{X: frame.X + widthX, Y: frame.Y + widthY}
	corners[3] = domain.Vec3{X: frame.X + widthX + depthX, Y: frame.Y + widthY + depthY}
	for i := 0; i < 4; i++ {
		corners[i+4] = domain.Vec3{X: corners[i].X, Y: corners[i].Y, Z: dims.Z}
	}
	return corners
}

// NormalizeRotation maps a rotation to [0, 360) degrees. Display only; the
// transforms above accept any real rotation.
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}
