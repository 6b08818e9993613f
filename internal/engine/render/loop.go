// Package render drives the per-frame draw of meshes through a gpu.Device.
package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/engine/lighting"
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/internal/engine/shader"
	"github.com/Faultbox/solar/pkg/math"
)

// Scheduler runs fn once on the next frame with a timestamp in milliseconds.
type Scheduler interface {
	RequestFrame(fn func(t float64))
}

// Viewport reports the drawable size in pixels.
type Viewport interface {
	Size() (width, height int)
}

// State is the lifecycle of a Loop.
type State int

const (
	Idle State = iota
	Loaded
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNotLoaded is returned by Start before a scene is set.
	ErrNotLoaded = errors.New("render: no scene loaded")
	// ErrStopped is returned by Start after Stop.
	ErrStopped = errors.New("render: loop stopped")
)

// Scene is what one frame draws.
type Scene struct {
	Meshes []*model.Mesh
	Camera *camera.Object
	Lights []*lighting.Light
}

// SceneFunc returns the scene for the frame about to be drawn.
type SceneFunc func() Scene

// Options configures a Loop.
type Options struct {
	Device     gpu.Device
	Scheduler  Scheduler
	Viewport   Viewport
	Lens       camera.Lens
	ClearColor [4]float32
	// OnTick runs after each frame's draws with the frame timestamp.
	OnTick func(t float64)
}

// Loop draws frames and reschedules itself while running.
type Loop struct {
	opts Options

	mu    sync.Mutex
	state State
	scene SceneFunc

	// Directional keeps its Z across frames.
	directional math.Vec3

	frames   int
	lastTime float64
	fps      float64
}

// New returns an idle loop. A zero Lens is replaced by camera.DefaultLens.
func New(opts Options) *Loop {
	if opts.Lens == (camera.Lens{}) {
		opts.Lens = camera.DefaultLens
	}
	return &Loop{opts: opts}
}

// SetScene installs the frame source. It fails once the loop is stopped.
func (l *Loop) SetScene(fn SceneFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Stopped {
		return ErrStopped
	}
	l.scene = fn
	if l.state == Idle {
		l.state = Loaded
	}
	return nil
}

// SetOnTick replaces the tick callback.
func (l *Loop) SetOnTick(fn func(t float64)) {
	l.mu.Lock()
	l.opts.OnTick = fn
	l.mu.Unlock()
}

// Start schedules the first frame. A running loop is left as is.
func (l *Loop) Start() error {
	l.mu.Lock()
	switch l.state {
	case Idle:
		l.mu.Unlock()
		return ErrNotLoaded
	case Stopped:
		l.mu.Unlock()
		return ErrStopped
	case Running:
		l.mu.Unlock()
		return nil
	}
	l.state = Running
	l.mu.Unlock()

	l.opts.Scheduler.RequestFrame(l.Frame)
	return nil
}

// Stop prevents further frames. A frame in progress finishes without
// rescheduling.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.state = Stopped
	l.mu.Unlock()
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// FPS returns the frame rate sampled every tenth frame.
func (l *Loop) FPS() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fps
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Directional returns the directional light vector of the last frame.
func (l *Loop) Directional() math.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.directional
}

// Frame draws one frame at t milliseconds. It does nothing unless a scene
// is loaded and the loop has not been stopped.
func (l *Loop) Frame(t float64) {
	l.mu.Lock()
	if l.state != Loaded && l.state != Running {
		l.mu.Unlock()
		return
	}
	src, tick := l.scene, l.opts.OnTick
	l.mu.Unlock()

	var sc Scene
	if src != nil {
		sc = src()
	}
	l.draw(sc)

	if tick != nil {
		tick(t)
	}

	l.mu.Lock()
	l.frames++
	if l.frames%10 == 0 && t > l.lastTime {
		l.fps = 1000 / (t - l.lastTime)
	}
	l.lastTime = t
	again := l.state == Running
	l.mu.Unlock()

	if again {
		l.opts.Scheduler.RequestFrame(l.Frame)
	}
}

func (l *Loop) draw(sc Scene) {
	dev := l.opts.Device
	dev.Clear(l.opts.ClearColor)

	w, h := l.opts.Viewport.Size()
	dev.Viewport(w, h)

	cam := sc.Camera
	if cam == nil {
		cam = camera.Default()
	}
	projection := l.opts.Lens.Projection(cam, camera.Aspect(w, h))

	l.mu.Lock()
	l.directional = lighting.Directional(sc.Lights, h, l.directional)
	directional := l.directional
	l.mu.Unlock()

	u := uniforms{
		projection:  projection,
		ambient:     lighting.Ambient,
		directional: directional,
	}
	for _, mesh := range sc.Meshes {
		u.modelView = mesh.ModelMatrix()
		u.normal = u.modelView.NormalMatrix()
		for i, p := range mesh.Primitives {
			if p.Program == nil {
				continue
			}
			if p.Buffers == nil {
				panic(fmt.Sprintf("render: mesh %q primitive %d has a program but no buffers", mesh.Name, i))
			}
			l.drawPrimitive(mesh.Name, i, p, &u)
		}
	}
}

type uniforms struct {
	projection  math.Mat4
	modelView   math.Mat4
	normal      math.Mat4
	ambient     math.Vec3
	directional math.Vec3
}

func (l *Loop) drawPrimitive(mesh string, index int, p *model.Primitive, u *uniforms) {
	dev := l.opts.Device
	prog := p.Program
	bufs := p.Buffers

	dev.UseProgram(prog)
	dev.BindAttribute(prog.Attrib(shader.AttribPosition), bufs.Position, p.Dim)
	dev.BindAttribute(prog.Attrib(shader.AttribNormal), bufs.Normal, 3)
	dev.BindIndexBuffer(bufs.Index)

	switch prog.Kind {
	case gpu.ShaderTextured:
		if len(bufs.TexCoords) == 0 {
			panic(fmt.Sprintf("render: textured mesh %q primitive %d has no texcoord buffer", mesh, index))
		}
		dev.BindAttribute(prog.Attrib(shader.AttribTexCoord), bufs.TexCoords[0], 2)
	case gpu.ShaderColored:
		dev.BindAttribute(prog.Attrib(shader.AttribColor), bufs.Color, 4)
	}

	if len(p.Materials) > 0 {
		l.bindMaterial(&p.Materials[0])
	}

	dev.SetUniformVec3(prog.Uniform(shader.UniformAmbient), u.ambient)
	dev.SetUniformVec3(prog.Uniform(shader.UniformDirectional), u.directional)
	dev.SetUniformMat4(prog.Uniform(shader.UniformProjection), u.projection)
	dev.SetUniformMat4(prog.Uniform(shader.UniformModelView), u.modelView)
	dev.SetUniformMat4(prog.Uniform(shader.UniformNormal), u.normal)
	dev.SetUniformInt(prog.Uniform(shader.UniformSampler), 0)

	dev.Enable(gpu.DepthTest)
	dev.Enable(gpu.SampleCoverage)
	dev.Enable(gpu.CullFace)
	dev.Enable(gpu.Blend)
	dev.BlendFunc(gpu.BlendOne, gpu.BlendOneMinusSrcAlpha)

	dev.DrawTriangles(len(p.Indices))
}

// bindMaterial binds the material texture to unit 0, uploading its image
// the first time.
func (l *Loop) bindMaterial(mat *model.Material) {
	if mat.Texture == 0 {
		return
	}
	dev := l.opts.Device
	dev.BindTexture(0, mat.Texture)
	if mat.Uploaded || !mat.HasImage() {
		return
	}
	dev.UploadTexture(mat.Image)
	b := mat.Image.Bounds()
	if math.IsPowerOfTwo(b.Dx()) && math.IsPowerOfTwo(b.Dy()) {
		dev.GenerateMipmap()
	} else {
		dev.SetClampLinear()
	}
	mat.Uploaded = true
}
