package lighting

import (
	"testing"

	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/pkg/math"
)

func TestZero(t *testing.T) {
	l := Zero("missing")
	if l.Name != "missing" || l.Mesh != nil {
		t.Errorf("Zero() = %+v", l)
	}
	if *l.Transform != (model.Transform{}) {
		t.Errorf("transform = %+v, want zero", *l.Transform)
	}
}

func TestFromMeshSharesTransform(t *testing.T) {
	m := model.NewMesh("7", "Light", nil)
	l := FromMesh(m)
	l.Location = math.Vec3{X: 3, Y: 4}
	if m.Location != l.Location {
		t.Errorf("mesh location %v, light location %v", m.Location, l.Location)
	}
	if l.Mesh != m {
		t.Error("light does not reference its mesh")
	}
}

func TestFromPlacement(t *testing.T) {
	l := FromPlacement("Lamp", [3]float32{1, 2, 3})
	if l.Location != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Location = %v", l.Location)
	}
}

func TestDirectionalLastLightWins(t *testing.T) {
	a := Zero("a")
	a.Location = math.Vec3{X: 10, Y: 20}
	b := Zero("b")
	b.Location = math.Vec3{X: 30, Y: 40}

	got := Directional([]*Light{a, b}, 600, math.Vec3{Z: 0.5})
	want := math.Vec3{X: 30, Y: 560, Z: 0.5}
	if got != want {
		t.Errorf("Directional() = %v, want %v", got, want)
	}
}

func TestDirectionalNoLightsKeepsPrevious(t *testing.T) {
	prev := math.Vec3{X: 1, Y: 2, Z: 3}
	if got := Directional(nil, 600, prev); got != prev {
		t.Errorf("Directional(nil) = %v, want %v", got, prev)
	}
}
