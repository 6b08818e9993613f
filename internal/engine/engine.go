// Package engine ties scene loading, resource building, input and the render
// loop into one API.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine/build"
	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/engine/input"
	"github.com/Faultbox/solar/internal/engine/lighting"
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/internal/engine/render"
	"github.com/Faultbox/solar/internal/engine/scene"
	"github.com/Faultbox/solar/internal/logger"
)

// ErrDestroyed is returned by operations on a destroyed engine.
var ErrDestroyed = errors.New("engine destroyed")

// Options wires an Engine to its host.
type Options struct {
	Device    gpu.Device
	Scheduler render.Scheduler
	Viewport  render.Viewport
	// Element receives pointer events, Document keyboard events.
	Element  input.Target
	Document input.Target

	Lens       camera.Lens
	ClearColor [4]float32
}

// SceneState is the mutable state shared between the loader goroutine, input
// handlers and frames.
type SceneState struct {
	Scene  *scene.Scene
	Camera *camera.Object
	Lights []*lighting.Light
}

// Engine owns one scene and draws it every frame once started.
type Engine struct {
	log *zap.Logger

	mu        sync.Mutex
	state     SceneState
	destroyed bool

	builder *build.Builder
	loop    *render.Loop
	input   *input.Dispatcher
}

// New returns an engine with no scene.
func New(opts Options) *Engine {
	e := &Engine{
		log:     logger.Named("engine"),
		builder: build.NewBuilder(opts.Device),
		input:   input.New(opts.Element, opts.Document),
	}
	e.loop = render.New(render.Options{
		Device:     opts.Device,
		Scheduler:  opts.Scheduler,
		Viewport:   opts.Viewport,
		Lens:       opts.Lens,
		ClearColor: opts.ClearColor,
	})
	return e
}

// frame snapshots the state for one frame.
func (e *Engine) frame() render.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	sc := render.Scene{
		Camera: e.state.Camera,
		Lights: append([]*lighting.Light(nil), e.state.Lights...),
	}
	if e.state.Scene != nil {
		sc.Meshes = e.state.Scene.Meshes
	}
	return sc
}

// AssetFunc produces the parsed scene file. It runs off the render thread.
type AssetFunc func(ctx context.Context) (*scene.Asset, error)

// FromAsset returns an AssetFunc yielding a.
func FromAsset(a *scene.Asset) AssetFunc {
	return func(context.Context) (*scene.Asset, error) { return a, nil }
}

// LoadStatus is the result of PollLoad.
type LoadStatus int

const (
	LoadPending LoadStatus = iota
	LoadReady
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// LoadHandle tracks one background load.
type LoadHandle struct {
	name string
	done chan struct{}

	scene *scene.Scene
	err   error

	// Touched only on the render thread.
	settled bool
	status  LoadStatus
}

// Done is closed when the background part of the load finishes.
func (h *LoadHandle) Done() <-chan struct{} { return h.done }

// Err returns the load or build error once PollLoad reported LoadFailed.
func (h *LoadHandle) Err() error {
	select {
	case <-h.done:
	default:
		return nil
	}
	return h.err
}

// BeginLoad starts parsing and loading the named scene in the background.
func (e *Engine) BeginLoad(ctx context.Context, name string, src AssetFunc) *LoadHandle {
	h := &LoadHandle{name: name, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		asset, err := src(ctx)
		if err != nil {
			h.err = fmt.Errorf("read asset: %w", err)
			return
		}
		if err := ctx.Err(); err != nil {
			h.err = err
			return
		}
		h.scene, h.err = scene.Load(asset, name)
	}()
	return h
}

// PollLoad reports the state of h. The first time it observes a finished
// load it installs the scene and builds its GPU resources, so it must be
// called on the render thread.
func (e *Engine) PollLoad(h *LoadHandle) LoadStatus {
	if h.settled {
		return h.status
	}
	select {
	case <-h.done:
	default:
		return LoadPending
	}

	h.settled = true
	h.status = LoadFailed
	if h.err != nil {
		e.log.Error("scene load failed", zap.String("scene", h.name), zap.Error(h.err))
		return h.status
	}
	if err := e.install(h.scene); err != nil {
		h.err = err
		e.log.Error("scene build failed", zap.String("scene", h.name), zap.Error(err))
		return h.status
	}
	h.status = LoadReady
	e.log.Info("scene ready",
		zap.String("scene", h.name),
		zap.Int("meshes", len(h.scene.Meshes)),
	)
	return h.status
}

func (e *Engine) install(s *scene.Scene) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	old := e.state.Scene
	e.state.Scene = s
	if e.state.Camera == nil {
		e.state.Camera = camera.Default()
	}
	e.mu.Unlock()

	if old != nil {
		e.builder.Release(old.Meshes)
	}
	if err := e.builder.Build(s.Meshes); err != nil {
		return err
	}
	return e.loop.SetScene(e.frame)
}

// loadPollInterval spaces PollLoad calls in LoadScene.
const loadPollInterval = 5 * time.Millisecond

// LoadScene loads a scene and blocks until it is installed. It polls on the
// calling goroutine, which must own the GPU context.
func (e *Engine) LoadScene(ctx context.Context, name string, src AssetFunc) error {
	h := e.BeginLoad(ctx, name, src)
	ticker := time.NewTicker(loadPollInterval)
	defer ticker.Stop()
	for {
		switch e.PollLoad(h) {
		case LoadReady:
			return nil
		case LoadFailed:
			return h.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.Done():
		case <-ticker.C:
		}
	}
}

// Scene returns the installed scene, or nil.
func (e *Engine) Scene() *scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Scene
}

// GetMesh returns the scene mesh called name, or nil.
func (e *Engine) GetMesh(name string) *model.Mesh {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Scene.Mesh(name)
}

// GetLight returns a light for the mesh or object called name. A light from
// a mesh shares its transform. Unknown names give a zero light.
func (e *Engine) GetLight(name string) *lighting.Light {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.state.Scene.Mesh(name); m != nil {
		return lighting.FromMesh(m)
	}
	if o := e.state.Scene.Object(name); o != nil {
		return lighting.FromPlacement(name, o.Translation)
	}
	return lighting.Zero(name)
}

// AddLight makes l contribute to the directional vector. Later lights win.
func (e *Engine) AddLight(l *lighting.Light) {
	if l == nil {
		return
	}
	e.mu.Lock()
	e.state.Lights = append(e.state.Lights, l)
	e.mu.Unlock()
}

// Lights returns the active lights in order.
func (e *Engine) Lights() []*lighting.Light {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*lighting.Light(nil), e.state.Lights...)
}

// GetCamera returns the active camera, creating the default one if needed.
// With a name it returns the scene object of that name, or the default
// camera when there is none.
func (e *Engine) GetCamera(name ...string) *camera.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(name) > 0 {
		if o := e.state.Scene.Object(name[0]); o != nil {
			return o
		}
		return camera.Default()
	}
	if e.state.Camera == nil {
		e.state.Camera = camera.Default()
	}
	return e.state.Camera
}

// SetCamera makes c the active camera.
func (e *Engine) SetCamera(c *camera.Object) {
	e.mu.Lock()
	e.state.Camera = c
	e.mu.Unlock()
}

// OnTick sets the per-frame callback.
func (e *Engine) OnTick(fn func(t float64)) {
	e.loop.SetOnTick(fn)
}

// Bind registers an input handler.
func (e *Engine) Bind(t input.EventType, key input.Key, handler input.Handler) {
	e.input.Bind(t, key, handler)
}

// Dispatcher returns the input dispatcher.
func (e *Engine) Dispatcher() *input.Dispatcher { return e.input }

// Start begins drawing. It fails until a load reported LoadReady.
func (e *Engine) Start() error {
	e.mu.Lock()
	destroyed := e.destroyed
	e.mu.Unlock()
	if destroyed {
		return ErrDestroyed
	}
	return e.loop.Start()
}

// State returns the render loop state.
func (e *Engine) State() render.State {
	return e.loop.State()
}

// FPS returns the sampled frame rate.
func (e *Engine) FPS() float64 {
	return e.loop.FPS()
}

// Destroy stops frames, detaches input and frees every GPU resource.
// Safe to call more than once.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	s := e.state.Scene
	e.state = SceneState{}
	e.mu.Unlock()

	e.loop.Stop()
	e.input.UnbindAll()
	if s != nil {
		e.builder.Release(s.Meshes)
	}
	e.log.Info("engine destroyed")
}
