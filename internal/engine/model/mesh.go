package model

import "github.com/Faultbox/solar/pkg/math"

// Transform is a mutable placement. A Mesh and a Light built from it share
// the same *Transform, so moving one moves the other.
type Transform struct {
	Location math.Vec3
	// Rotation holds per-axis angles in radians.
	Rotation math.Vec3
}

// Matrix returns the model matrix. The rotation axes are crossed: Rotation.Y
// turns about X and Rotation.X about Y, each at half the stored angle.
func (t *Transform) Matrix() math.Mat4 {
	return math.Identity().
		Translate(t.Location).
		Rotate(0.5*t.Rotation.Y, math.AxisX).
		Rotate(0.5*t.Rotation.X, math.AxisY).
		Rotate(0.5*t.Rotation.Z, math.AxisZ)
}

// Mesh is a named group of primitives placed by one transform.
type Mesh struct {
	ID         string
	Name       string
	Primitives []*Primitive
	*Transform
}

// NewMesh returns a mesh with a zero transform.
func NewMesh(id, name string, primitives []*Primitive) *Mesh {
	return &Mesh{
		ID:         id,
		Name:       name,
		Primitives: primitives,
		Transform:  &Transform{},
	}
}

// ModelMatrix returns the mesh's model matrix.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return m.Transform.Matrix()
}

// NormalMatrix returns transpose(inverse(model)).
func (m *Mesh) NormalMatrix() math.Mat4 {
	return m.ModelMatrix().NormalMatrix()
}
