// Package lighting provides scene lights and the per-frame light uniforms.
package lighting

import (
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/pkg/math"
)

// Ambient is the constant ambient term.
var Ambient = math.Vec3{X: 0.1, Y: 0.1, Z: 0.1}

// Light is a named placement. When built from a mesh the light shares that
// mesh's transform.
type Light struct {
	Name string
	*model.Transform
	Mesh *model.Mesh
}

// Zero returns a light with an all-zero transform and no mesh.
func Zero(name string) *Light {
	return &Light{Name: name, Transform: &model.Transform{}}
}

// FromMesh returns a light that moves with m.
func FromMesh(m *model.Mesh) *Light {
	return &Light{Name: m.Name, Transform: m.Transform, Mesh: m}
}

// FromPlacement returns a light at translation with its own transform.
func FromPlacement(name string, translation [3]float32) *Light {
	return &Light{
		Name: name,
		Transform: &model.Transform{
			Location: math.Vec3{X: translation[0], Y: translation[1], Z: translation[2]},
		},
	}
}

// Directional folds lights into the directional vector for one frame.
// Each light overwrites X with its X and Y with viewportHeight minus its Y,
// so the last light wins. Z is carried over from prev untouched.
func Directional(lights []*Light, viewportHeight int, prev math.Vec3) math.Vec3 {
	v := prev
	for _, l := range lights {
		if l == nil || l.Transform == nil {
			continue
		}
		v.X = l.Location.X
		v.Y = float32(viewportHeight) - l.Location.Y
	}
	return v
}
