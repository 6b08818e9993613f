// Package game is the demo application: it loads a scene, picks a character
// mesh and maps keyboard and mouse input onto the character, the light and
// the camera.
package game

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine"
	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/input"
	"github.com/Faultbox/solar/internal/engine/lighting"
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/internal/logger"
)

// SceneName is the scene every demo file is expected to contain.
const SceneName = "Scene"

// LightName is the scene object that drives the light.
const LightName = "Light"

const (
	// moveStep is the character offset per tick while an arrow key is held.
	moveStep = 0.05
	// dragScale converts drag distance in pixels to radians.
	dragScale = 1250
	// zoomScale converts wheel deltaY to camera units.
	zoomScale = 0.01
	// fpsEvery is the tick interval between title updates.
	fpsEvery = 10
)

// preset configures the demo for one known scene file.
type preset struct {
	suffix    string
	character string
	camera    *[3]float32
}

var presets = []preset{
	{"suzanne.gltf", "Suzanne", &[3]float32{0, 0, -20}},
	{"tank.gltf", "Hull", &[3]float32{0, 0, -20}},
	{"bottle.gltf", "Circle", &[3]float32{0, 0, -20}},
	{"stewarts-antique-record-player.gltf", "Antique_Record_Player", &[3]float32{0, -0.5, -2}},
	{"woman.gltf", "Girl", nil},
}

// fallbackCharacter is used for files without a preset.
const fallbackCharacter = "Thing"

func presetFor(path string) preset {
	base := filepath.ToSlash(path)
	for _, p := range presets {
		if strings.HasSuffix(base, p.suffix) {
			return p
		}
	}
	return preset{character: fallbackCharacter}
}

// Titler shows the frame rate.
type Titler interface {
	SetTitle(title string)
}

// Game holds the demo's input state. All methods run on the render thread.
type Game struct {
	log    *zap.Logger
	engine *engine.Engine
	title  Titler
	name   string

	character *model.Mesh
	light     *lighting.Light
	camera    *camera.Object

	left, right bool
	dragging    bool
	dragStart   [2]int

	zoom       harmonica.Spring
	zoomPos    float64
	zoomVel    float64
	zoomTarget float64

	lastT float64
	ticks int
	quit  bool
}

// Setup configures e, which must already hold the loaded scene from path,
// and registers the demo's handlers. title may be nil.
func Setup(e *engine.Engine, path string, title Titler) *Game {
	g := &Game{
		log:    logger.Named("game"),
		engine: e,
		title:  title,
		name:   filepath.Base(path),
		zoom:   harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}

	p := presetFor(path)
	g.camera = e.GetCamera()
	if p.camera != nil {
		g.camera.Translation = *p.camera
	}
	g.zoomPos = float64(g.camera.Translation[2])
	g.zoomTarget = g.zoomPos

	g.character = e.GetMesh(p.character)
	if g.character == nil {
		g.log.Warn("character mesh not found", zap.String("mesh", p.character))
		g.character = model.NewMesh("cube", "cube", nil)
	}

	g.light = e.GetLight(LightName)
	e.AddLight(g.light)

	e.Bind(input.KeyDown, input.Code("ArrowLeft"), func(*input.Dispatcher, *input.Event) { g.left = true })
	e.Bind(input.KeyUp, input.Code("ArrowLeft"), func(*input.Dispatcher, *input.Event) { g.left = false })
	e.Bind(input.KeyDown, input.Code("ArrowRight"), func(*input.Dispatcher, *input.Event) { g.right = true })
	e.Bind(input.KeyUp, input.Code("ArrowRight"), func(*input.Dispatcher, *input.Event) { g.right = false })
	e.Bind(input.KeyDown, input.Code("Escape"), func(*input.Dispatcher, *input.Event) { g.quit = true })

	e.Bind(input.MouseDown, input.Button(0), g.mouseDown)
	e.Bind(input.MouseUp, input.Button(0), g.mouseUp)
	e.Bind(input.MouseMove, input.Button(0), g.mouseMove)
	e.Bind(input.Wheel, input.Button(0), g.wheel)

	e.OnTick(g.Tick)

	g.log.Info("demo ready",
		zap.String("file", g.name),
		zap.String("character", g.character.Name),
	)
	return g
}

// Character returns the mesh the controls act on.
func (g *Game) Character() *model.Mesh { return g.character }

// Light returns the light that follows the cursor.
func (g *Game) Light() *lighting.Light { return g.light }

// Quit reports whether Escape was pressed.
func (g *Game) Quit() bool { return g.quit }

func (g *Game) mouseDown(_ *input.Dispatcher, ev *input.Event) {
	g.dragging = true
	g.dragStart = [2]int{ev.X, ev.Y}
}

func (g *Game) mouseUp(*input.Dispatcher, *input.Event) {
	g.dragging = false
	g.dragStart = [2]int{}
}

func (g *Game) mouseMove(_ *input.Dispatcher, ev *input.Event) {
	if !g.dragging {
		g.light.Location.X = float32(ev.X)
		g.light.Location.Y = float32(ev.Y)
		return
	}
	rot := &g.character.Rotation
	rot.Y += dragDelta(ev.Y, g.dragStart[1])
	rot.X += dragDelta(ev.X, g.dragStart[0])
}

// dragDelta is the signed rotation for a cursor at pos after a drag began
// at start.
func dragDelta(pos, start int) float32 {
	return float32(pos-start) / dragScale
}

func (g *Game) wheel(_ *input.Dispatcher, ev *input.Event) {
	g.zoomTarget -= ev.DeltaY * zoomScale
}

// Tick advances the demo by one frame.
func (g *Game) Tick(t float64) {
	if g.ticks%fpsEvery == 0 && g.title != nil && t > g.lastT {
		g.title.SetTitle(fmt.Sprintf("Solar - %s - %.2f fps", g.name, 1000/(t-g.lastT)))
	}
	g.lastT = t
	g.ticks++

	if g.left {
		g.character.Location.X -= moveStep
	}
	if g.right {
		g.character.Location.X += moveStep
	}

	g.zoomPos, g.zoomVel = g.zoom.Update(g.zoomPos, g.zoomVel, g.zoomTarget)
	g.camera.Translation[2] = float32(g.zoomPos)
}
