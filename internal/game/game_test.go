package game

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/solar/internal/engine"
	"github.com/Faultbox/solar/internal/engine/gpu/gputest"
	"github.com/Faultbox/solar/internal/engine/input"
	"github.com/Faultbox/solar/internal/engine/scene"
)

type nopScheduler struct{}

func (nopScheduler) RequestFrame(func(float64)) {}

type viewport struct{}

func (viewport) Size() (int, int) { return 800, 600 }

type titles struct{ got []string }

func (t *titles) SetTitle(s string) { t.got = append(t.got, s) }

type fixture struct {
	element  *input.Hub
	document *input.Hub
	engine   *engine.Engine
}

func demoAsset() *scene.Asset {
	prim := scene.PrimitiveDef{
		Attributes: map[string][]float32{
			scene.AttrPosition: {0, 0, 0, 1, 0, 0, 0, 1, 0},
			scene.AttrNormal:   {0, 0, 1, 0, 0, 1, 0, 0, 1},
		},
		Indices: []uint16{0, 1, 2},
	}
	suzanne := &scene.Node{ID: "0", Name: "Suzanne", Mesh: &scene.MeshDef{Name: "Suzanne", Primitives: []scene.PrimitiveDef{prim}}}
	lamp := &scene.Node{ID: "1", Name: LightName, Translation: &[3]float32{4, 5, 6}}
	return &scene.Asset{
		Scenes: []scene.SceneDef{{Name: SceneName, Nodes: []*scene.Node{suzanne, lamp}}},
		Nodes:  []*scene.Node{suzanne, lamp},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{element: input.NewHub(), document: input.NewHub()}
	f.engine = engine.New(engine.Options{
		Device:    gputest.NewDevice(),
		Scheduler: nopScheduler{},
		Viewport:  viewport{},
		Element:   f.element,
		Document:  f.document,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.engine.LoadScene(ctx, SceneName, engine.FromAsset(demoAsset())); err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	t.Cleanup(f.engine.Destroy)
	return f
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPresets(t *testing.T) {
	tests := []struct {
		path      string
		character string
		camera    [3]float32
	}{
		{"models/suzanne.gltf", "Suzanne", [3]float32{0, 0, -20}},
		{"models/stewarts-antique-record-player.gltf", "cube", [3]float32{0, -0.5, -2}},
		{"models/other.glb", "cube", [3]float32{0, 0, -20}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t)
			g := Setup(f.engine, tt.path, nil)
			if got := g.Character().Name; got != tt.character {
				t.Errorf("character = %q, want %q", got, tt.character)
			}
			if got := f.engine.GetCamera().Translation; got != tt.camera {
				t.Errorf("camera = %v, want %v", got, tt.camera)
			}
		})
	}
}

func TestPresetFor(t *testing.T) {
	if p := presetFor("a/woman.gltf"); p.character != "Girl" || p.camera != nil {
		t.Errorf("woman preset = %+v", p)
	}
	if p := presetFor("tank.gltf"); p.character != "Hull" {
		t.Errorf("tank preset = %+v", p)
	}
	if p := presetFor("x.gltf"); p.character != fallbackCharacter {
		t.Errorf("fallback = %+v", p)
	}
}

func TestArrowKeysMoveCharacter(t *testing.T) {
	f := newFixture(t)
	g := Setup(f.engine, "suzanne.gltf", nil)

	f.document.Emit(input.KeyboardEvent(input.KeyDown, "Left"))
	g.Tick(16)
	g.Tick(32)
	if got := g.Character().Location.X; !near(got, -0.1) {
		t.Fatalf("x = %v, want -0.1", got)
	}

	f.document.Emit(input.KeyboardEvent(input.KeyUp, "Left"))
	f.document.Emit(input.KeyboardEvent(input.KeyDown, "Right"))
	g.Tick(48)
	if got := g.Character().Location.X; !near(got, -0.05) {
		t.Errorf("x = %v, want -0.05", got)
	}
}

func TestDragRotatesCharacter(t *testing.T) {
	f := newFixture(t)
	g := Setup(f.engine, "suzanne.gltf", nil)

	f.element.Emit(&input.Event{Type: input.MouseDown, X: 100, Y: 100})
	f.element.Emit(&input.Event{Type: input.MouseMove, X: 225, Y: -150})
	rot := g.Character().Rotation
	if !near(rot.X, 0.1) || !near(rot.Y, -0.2) {
		t.Errorf("rotation = %+v, want x 0.1 y -0.2", rot)
	}

	light := g.Light().Location
	if light.X != 4 || light.Y != 5 {
		t.Errorf("light moved during drag: %+v", light)
	}
}

func TestMoveWithoutDragPlacesLight(t *testing.T) {
	f := newFixture(t)
	g := Setup(f.engine, "suzanne.gltf", nil)

	f.element.Emit(&input.Event{Type: input.MouseDown, X: 10, Y: 10})
	f.element.Emit(&input.Event{Type: input.MouseUp, X: 10, Y: 10})
	ev := &input.Event{Type: input.MouseMove, X: 320, Y: 240}
	f.element.Emit(ev)

	l := g.Light().Location
	if l.X != 320 || l.Y != 240 || l.Z != 6 {
		t.Errorf("light = %+v, want (320, 240, 6)", l)
	}
	if !ev.DefaultPrevented() {
		t.Error("move event not consumed")
	}
	if got := g.Character().Rotation; got.X != 0 || got.Y != 0 {
		t.Errorf("rotation changed without drag: %+v", got)
	}

	lights := f.engine.Lights()
	if len(lights) != 1 || lights[0] != g.Light() {
		t.Errorf("engine lights = %v", lights)
	}
}

func TestWheelZoomsCamera(t *testing.T) {
	f := newFixture(t)
	g := Setup(f.engine, "suzanne.gltf", nil)

	f.element.Emit(&input.Event{Type: input.Wheel, DeltaY: 100})
	g.Tick(16)
	z := f.engine.GetCamera().Translation[2]
	if z >= -20 || z < -21 {
		t.Fatalf("z after one tick = %v, want between -21 and -20", z)
	}
	for i := 0; i < 600; i++ {
		g.Tick(float64(32 + 16*i))
	}
	if got := f.engine.GetCamera().Translation[2]; !near(got, -21) {
		t.Errorf("settled z = %v, want -21", got)
	}
}

func TestEscapeQuits(t *testing.T) {
	f := newFixture(t)
	g := Setup(f.engine, "suzanne.gltf", nil)
	if g.Quit() {
		t.Fatal("quit before Escape")
	}
	f.document.Emit(input.KeyboardEvent(input.KeyDown, "Escape"))
	if !g.Quit() {
		t.Error("Escape did not request quit")
	}
}

func TestTitleShowsFPS(t *testing.T) {
	f := newFixture(t)
	tt := &titles{}
	g := Setup(f.engine, "models/suzanne.gltf", tt)

	for i := 1; i <= fpsEvery+1; i++ {
		g.Tick(float64(16 * i))
	}
	if len(tt.got) != 2 {
		t.Fatalf("titles = %v, want 2 updates", tt.got)
	}
	if !strings.Contains(tt.got[0], "62.50 fps") || !strings.Contains(tt.got[0], "suzanne.gltf") {
		t.Errorf("title = %q", tt.got[0])
	}
}
