// Package renderer implements gpu.Device on OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/logger"
	"github.com/Faultbox/solar/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device issues GL calls on the thread that owns the context.
type Device struct {
	// Core profile needs a bound VAO for any attribute pointer.
	vao uint32
}

// New creates a device.
// IMPORTANT: Must be called AFTER the OpenGL context is current!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

// Close releases the vertex array.
func (d *Device) Close() {
	logger.Info("closing renderer")
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) CreateProgram(desc gpu.ProgramDesc) (*gpu.Program, error) {
	id, err := compileProgram(desc.Vertex, desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", desc.Kind, err)
	}

	attribs := make(map[string]int32, len(desc.Attributes))
	for _, name := range desc.Attributes {
		attribs[name] = gl.GetAttribLocation(id, gl.Str(name+"\x00"))
	}
	uniforms := make(map[string]int32, len(desc.Uniforms))
	for _, name := range desc.Uniforms {
		uniforms[name] = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}

	logger.Debug("shader program created",
		zap.String("kind", desc.Kind.String()),
		zap.Uint32("program", id),
	)
	return gpu.NewProgram(id, desc.Kind, attribs, uniforms), nil
}

func (d *Device) DeleteProgram(p *gpu.Program) {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
	}
}

func (d *Device) UseProgram(p *gpu.Program) {
	gl.UseProgram(p.ID)
}

func (d *Device) CreateVertexBuffer(data []float32) gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(gl.ARRAY_BUFFER, b)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gpu.Buffer(b)
}

func (d *Device) CreateIndexBuffer(data []uint16) gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return gpu.Buffer(b)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindAttribute(loc int32, b gpu.Buffer, components int) {
	if loc < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
}

// CreateTexture allocates a texture holding one opaque blue pixel until the
// real image arrives.
func (d *Device) CreateTexture() gpu.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	gl.BindTexture(gl.TEXTURE_2D, t)
	pixel := [4]uint8{0, 0, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixel[0]))
	return gpu.Texture(t)
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

// UploadTexture replaces the bound texture's level 0.
func (d *Device) UploadTexture(img *image.RGBA) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func (d *Device) GenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (d *Device) SetClampLinear() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
}

func (d *Device) SetUniformMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (d *Device) SetUniformVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func (d *Device) SetUniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

// Clear clears color and depth with LEQUAL depth testing.
func (d *Device) Clear(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Enable(c gpu.Capability) {
	switch c {
	case gpu.DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	case gpu.SampleCoverage:
		gl.Enable(gl.SAMPLE_COVERAGE)
	case gpu.CullFace:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case gpu.Blend:
		gl.Enable(gl.BLEND)
	}
}

func (d *Device) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(glBlend(src), glBlend(dst))
}

func glBlend(f gpu.BlendFactor) uint32 {
	if f == gpu.BlendOneMinusSrcAlpha {
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ONE
}

func (d *Device) DrawTriangles(count int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_SHORT, 0)
}

// Viewport handles window resize.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

var _ gpu.Device = (*Device)(nil)
