package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/solar/pkg/math"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Name != "default" {
		t.Errorf("Name = %q, want default", c.Name)
	}
	if c.Translation != [3]float32{0, 0, -20} {
		t.Errorf("Translation = %v", c.Translation)
	}
	if c.Rotation != [4]float32{} {
		t.Errorf("Rotation = %v, want zero", c.Rotation)
	}
}

func TestProjectionMatchesReference(t *testing.T) {
	cam := &Object{
		Translation: [3]float32{1, -0.5, -2},
		Rotation:    [4]float32{0.4, 1.2, -0.6, 0},
	}
	got := DefaultLens.Projection(cam, 16.0/9.0)

	want := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100).
		Mul4(mgl32.Translate3D(1, -0.5, -2)).
		Mul4(mgl32.HomogRotate3DX(0.2)).
		Mul4(mgl32.HomogRotate3DY(0.6)).
		Mul4(mgl32.HomogRotate3DZ(-0.3))

	for i := range got {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-4 {
			t.Fatalf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProjectionNilCamera(t *testing.T) {
	got := DefaultLens.Projection(nil, 1)
	want := math.Perspective(float32(gomath.Pi/4), 1, 0.1, 100)
	for i := range got {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{800, 600, 800.0 / 600.0},
		{0, 600, 1},
		{800, 0, 1},
	}
	for _, tt := range tests {
		if got := Aspect(tt.w, tt.h); got != tt.want {
			t.Errorf("Aspect(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
