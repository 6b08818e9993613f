package model

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/solar/pkg/math"
)

func triangle() *Primitive {
	return &Primitive{
		Dim:     3,
		Faces:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices: []uint16{0, 1, 2},
		Materials: []Material{{
			Kind:          MaterialTexture,
			TextureCoords: []float32{0, 0, 1, 0, 0, 1},
		}},
	}
}

func TestValidate(t *testing.T) {
	if err := triangle().Validate(); err != nil {
		t.Fatalf("valid triangle: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *Primitive)
	}{
		{"index out of range", func(p *Primitive) { p.Indices = []uint16{0, 1, 3} }},
		{"bad dim", func(p *Primitive) { p.Dim = 4 }},
		{"ragged faces", func(p *Primitive) { p.Faces = p.Faces[:8] }},
		{"short normals", func(p *Primitive) { p.Normals = p.Normals[:6] }},
		{"short texcoords", func(p *Primitive) { p.Materials[0].TextureCoords = []float32{0, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := triangle()
			tt.mutate(p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidPrimitive) {
				t.Errorf("Validate() = %v, want ErrInvalidPrimitive", err)
			}
		})
	}
}

func TestValidateSkipsColorMaterialCoords(t *testing.T) {
	p := triangle()
	p.Materials = []Material{{Kind: MaterialColor, BaseColor: [4]float32{1, 0, 0, 1}}}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCounts(t *testing.T) {
	p := triangle()
	if got := p.VertexCount(); got != 3 {
		t.Errorf("VertexCount() = %d, want 3", got)
	}
	if got := p.MaxIndex(); got != 2 {
		t.Errorf("MaxIndex() = %d, want 2", got)
	}
	empty := &Primitive{Dim: 3}
	if got := empty.MaxIndex(); got != -1 {
		t.Errorf("empty MaxIndex() = %d, want -1", got)
	}
}

func TestBuilt(t *testing.T) {
	p := triangle()
	if p.Built() {
		t.Error("fresh primitive reports built")
	}
}

func TestModelMatrixTranslation(t *testing.T) {
	m := NewMesh("1", "cube", nil)
	m.Location = math.Vec3{X: 1, Y: 2, Z: 3}
	got := m.ModelMatrix().TransformPoint(math.Vec3{})
	if got != m.Location {
		t.Errorf("origin maps to %v, want %v", got, m.Location)
	}
}

func TestModelMatrixCrossedHalfAngles(t *testing.T) {
	m := NewMesh("1", "cube", nil)
	// Rotation.Y = pi turns pi/2 about X, taking +Y to +Z.
	m.Rotation.Y = gomath.Pi
	got := m.ModelMatrix().TransformDirection(math.Vec3{Y: 1})
	if !near(got, math.Vec3{Z: 1}) {
		t.Errorf("rotation.y: +Y -> %v, want +Z", got)
	}

	m.Rotation = math.Vec3{X: gomath.Pi}
	// Rotation.X = pi turns pi/2 about Y, taking +Z to +X.
	got = m.ModelMatrix().TransformDirection(math.Vec3{Z: 1})
	if !near(got, math.Vec3{X: 1}) {
		t.Errorf("rotation.x: +Z -> %v, want +X", got)
	}
}

func TestNormalMatrixOfTranslationIsRotationFree(t *testing.T) {
	m := NewMesh("1", "cube", nil)
	m.Location = math.Vec3{X: 5}
	n := m.NormalMatrix()
	got := n.TransformDirection(math.Vec3{Z: 1})
	if !near(got, math.Vec3{Z: 1}) {
		t.Errorf("normal matrix rotates normals: %v", got)
	}
}

func TestSharedTransform(t *testing.T) {
	m := NewMesh("1", "cube", nil)
	other := m.Transform
	other.Location.X = 7
	if m.Location.X != 7 {
		t.Error("mesh does not observe shared transform")
	}
}

func near(a, b math.Vec3) bool {
	d := a.Sub(b)
	return d.Length() < 1e-5
}
