// Package camera provides the scene camera and its projection.
package camera

import (
	gomath "math"

	"github.com/Faultbox/solar/pkg/math"
)

// DefaultName names the camera used when a scene provides none.
const DefaultName = "default"

// Object is a camera placement. Rotation holds per-axis angles in radians
// (the fourth component is carried from the scene but unused).
type Object struct {
	ID          string
	Name        string
	Rotation    [4]float32
	Translation [3]float32
}

// Default returns a camera 20 units back along -Z with no rotation.
func Default() *Object {
	return &Object{
		ID:          DefaultName,
		Name:        DefaultName,
		Translation: [3]float32{0, 0, -20},
	}
}

// Lens holds the perspective parameters.
type Lens struct {
	FovYDegrees float32
	Near        float32
	Far         float32
}

// DefaultLens is a 45 degree lens clipping at 0.1 and 100.
var DefaultLens = Lens{FovYDegrees: 45, Near: 0.1, Far: 100}

// Projection returns the combined projection-view matrix:
// Perspective · Translate(T) · RotX(R0/2) · RotY(R1/2) · RotZ(R2/2).
func (l Lens) Projection(cam *Object, aspect float32) math.Mat4 {
	fov := l.FovYDegrees * gomath.Pi / 180
	m := math.Perspective(float32(fov), aspect, l.Near, l.Far)
	if cam == nil {
		return m
	}
	t := cam.Translation
	return m.
		Translate(math.Vec3{X: t[0], Y: t[1], Z: t[2]}).
		Rotate(0.5*cam.Rotation[0], math.AxisX).
		Rotate(0.5*cam.Rotation[1], math.AxisY).
		Rotate(0.5*cam.Rotation[2], math.AxisZ)
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func Aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
