// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"image"

	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/pkg/math"
)

// Draw records one DrawTriangles call.
type Draw struct {
	Program  uint32
	Count    int
	Texture  gpu.Texture
	Uniforms map[string]any
}

// Upload records one UploadTexture call.
type Upload struct {
	Texture       gpu.Texture
	Width, Height int
}

// Device is an in-memory gpu.Device. Handles are never reused so aliasing
// between builds is observable.
type Device struct {
	// CompileErr, when set for a kind, makes CreateProgram fail for it.
	CompileErr map[gpu.ShaderKind]error

	Draws      []Draw
	Uploads    []Upload
	Clears     int
	Mipmaps    int
	ClampCalls int
	Enabled    map[gpu.Capability]int
	Blend      [2]gpu.BlendFactor
	Width      int
	Height     int

	// BufferData keeps the contents each buffer was created with.
	BufferData map[gpu.Buffer]any

	next     uint32
	buffers  map[gpu.Buffer]bool
	textures map[gpu.Texture]bool
	programs map[uint32]*gpu.Program

	current  *gpu.Program
	bound    gpu.Texture
	attribs  map[int32]gpu.Buffer
	index    gpu.Buffer
	uniforms map[string]any
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		CompileErr: make(map[gpu.ShaderKind]error),
		Enabled:    make(map[gpu.Capability]int),
		BufferData: make(map[gpu.Buffer]any),
		buffers:    make(map[gpu.Buffer]bool),
		textures:   make(map[gpu.Texture]bool),
		programs:   make(map[uint32]*gpu.Program),
		attribs:    make(map[int32]gpu.Buffer),
		uniforms:   make(map[string]any),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// CreateProgram assigns locations in declaration order.
func (d *Device) CreateProgram(desc gpu.ProgramDesc) (*gpu.Program, error) {
	if err := d.CompileErr[desc.Kind]; err != nil {
		return nil, fmt.Errorf("%s program: %w", desc.Kind, err)
	}
	attribs := make(map[string]int32, len(desc.Attributes))
	for i, name := range desc.Attributes {
		attribs[name] = int32(i)
	}
	uniforms := make(map[string]int32, len(desc.Uniforms))
	for i, name := range desc.Uniforms {
		uniforms[name] = int32(i)
	}
	p := gpu.NewProgram(d.id(), desc.Kind, attribs, uniforms)
	d.programs[p.ID] = p
	return p, nil
}

func (d *Device) DeleteProgram(p *gpu.Program) {
	if p == nil {
		return
	}
	if _, ok := d.programs[p.ID]; !ok {
		panic(fmt.Sprintf("gputest: double delete of program %d", p.ID))
	}
	delete(d.programs, p.ID)
}

func (d *Device) UseProgram(p *gpu.Program) {
	d.current = p
	d.uniforms = make(map[string]any)
}

func (d *Device) CreateVertexBuffer(data []float32) gpu.Buffer {
	b := gpu.Buffer(d.id())
	d.buffers[b] = true
	d.BufferData[b] = append([]float32(nil), data...)
	return b
}

func (d *Device) CreateIndexBuffer(data []uint16) gpu.Buffer {
	b := gpu.Buffer(d.id())
	d.buffers[b] = true
	d.BufferData[b] = append([]uint16(nil), data...)
	return b
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if !d.buffers[b] {
		panic(fmt.Sprintf("gputest: delete of unknown buffer %d", b))
	}
	delete(d.buffers, b)
	delete(d.BufferData, b)
}

func (d *Device) BindAttribute(loc int32, b gpu.Buffer, components int) {
	if !d.buffers[b] {
		panic(fmt.Sprintf("gputest: bind of unknown buffer %d", b))
	}
	d.attribs[loc] = b
}

func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	if !d.buffers[b] {
		panic(fmt.Sprintf("gputest: bind of unknown index buffer %d", b))
	}
	d.index = b
}

func (d *Device) CreateTexture() gpu.Texture {
	t := gpu.Texture(d.id())
	d.textures[t] = true
	return t
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	if !d.textures[t] {
		panic(fmt.Sprintf("gputest: delete of unknown texture %d", t))
	}
	delete(d.textures, t)
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.bound = t
}

func (d *Device) UploadTexture(img *image.RGBA) {
	b := img.Bounds()
	d.Uploads = append(d.Uploads, Upload{Texture: d.bound, Width: b.Dx(), Height: b.Dy()})
}

func (d *Device) GenerateMipmap() { d.Mipmaps++ }

func (d *Device) SetClampLinear() { d.ClampCalls++ }

func (d *Device) uniformName(loc int32) string {
	if d.current == nil {
		return fmt.Sprintf("loc%d", loc)
	}
	for _, name := range d.uniformNames() {
		if d.current.Uniform(name) == loc {
			return name
		}
	}
	return fmt.Sprintf("loc%d", loc)
}

func (d *Device) uniformNames() []string {
	return []string{
		"uProjectionMatrix", "uModelViewMatrix", "uNormalMatrix",
		"uSampler", "uAmbientLight", "uDirectionalVector",
	}
}

func (d *Device) SetUniformMat4(loc int32, m math.Mat4) { d.uniforms[d.uniformName(loc)] = m }

func (d *Device) SetUniformVec3(loc int32, v math.Vec3) { d.uniforms[d.uniformName(loc)] = v }

func (d *Device) SetUniformInt(loc int32, v int32) { d.uniforms[d.uniformName(loc)] = v }

func (d *Device) Clear(color [4]float32) { d.Clears++ }

func (d *Device) Enable(c gpu.Capability) { d.Enabled[c]++ }

func (d *Device) BlendFunc(src, dst gpu.BlendFactor) { d.Blend = [2]gpu.BlendFactor{src, dst} }

func (d *Device) DrawTriangles(count int) {
	if d.current == nil {
		panic("gputest: draw without program")
	}
	if d.index == 0 {
		panic("gputest: draw without index buffer")
	}
	uniforms := make(map[string]any, len(d.uniforms))
	for k, v := range d.uniforms {
		uniforms[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Program:  d.current.ID,
		Count:    count,
		Texture:  d.bound,
		Uniforms: uniforms,
	})
}

func (d *Device) Viewport(width, height int) {
	d.Width, d.Height = width, height
}

// LiveBuffers returns the number of buffers not yet deleted.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LivePrograms returns the number of programs not yet deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

// BoundAttribute returns the buffer last bound to loc.
func (d *Device) BoundAttribute(loc int32) gpu.Buffer { return d.attribs[loc] }

var _ gpu.Device = (*Device)(nil)
