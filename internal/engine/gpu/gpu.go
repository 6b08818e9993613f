// Package gpu declares the graphics-device contract the engine renders through.
//
// The engine decides what is created, uploaded and bound; a Device decides
// how. internal/engine/renderer implements it on OpenGL 4.1 core and
// gpu/gputest provides a recording fake.
package gpu

import (
	"image"

	"github.com/Faultbox/solar/pkg/math"
)

// Buffer is an opaque vertex or index buffer handle. Zero means none.
type Buffer uint32

// Texture is an opaque texture handle. Zero means none.
type Texture uint32

// ShaderKind selects one of the two fixed shading pipelines.
type ShaderKind int

const (
	// ShaderTextured samples one texture with ambient+diffuse lighting.
	ShaderTextured ShaderKind = iota
	// ShaderColored uses per-vertex color with ambient+diffuse lighting.
	ShaderColored
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderColored:
		return "colored"
	case ShaderTextured:
		return "textured"
	default:
		return "unknown"
	}
}

// ParseShaderKind maps a scene tag to a kind. Anything but "colored" is textured.
func ParseShaderKind(tag string) ShaderKind {
	if tag == "colored" {
		return ShaderColored
	}
	return ShaderTextured
}

// Capability is a fixed-function state toggled per draw.
type Capability int

const (
	DepthTest Capability = iota
	SampleCoverage
	CullFace
	Blend
)

// BlendFactor names a blend equation factor.
type BlendFactor int

const (
	BlendOne BlendFactor = iota
	BlendOneMinusSrcAlpha
)

// ProgramDesc describes a shader program to compile and link.
type ProgramDesc struct {
	Kind       ShaderKind
	Vertex     string
	Fragment   string
	Attributes []string
	Uniforms   []string
}

// Program is a linked shader program with its resolved locations.
type Program struct {
	ID       uint32
	Kind     ShaderKind
	attribs  map[string]int32
	uniforms map[string]int32
}

// NewProgram wraps a linked program id. Devices call this after linking.
func NewProgram(id uint32, kind ShaderKind, attribs, uniforms map[string]int32) *Program {
	return &Program{ID: id, Kind: kind, attribs: attribs, uniforms: uniforms}
}

// Attrib returns the attribute location for name, or -1 if inactive.
func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

// Uniform returns the uniform location for name, or -1 if inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Device is the graphics-API binding layer.
//
// All methods must be called from the thread that owns the context.
type Device interface {
	CreateProgram(desc ProgramDesc) (*Program, error)
	DeleteProgram(p *Program)
	UseProgram(p *Program)

	CreateVertexBuffer(data []float32) Buffer
	CreateIndexBuffer(data []uint16) Buffer
	DeleteBuffer(b Buffer)
	// BindAttribute points attribute loc at b with the given float components.
	BindAttribute(loc int32, b Buffer, components int)
	BindIndexBuffer(b Buffer)

	CreateTexture() Texture
	DeleteTexture(t Texture)
	BindTexture(unit int, t Texture)
	// UploadTexture replaces the contents of the bound texture.
	UploadTexture(img *image.RGBA)
	GenerateMipmap()
	// SetClampLinear selects clamp-to-edge wrapping with linear minification.
	SetClampLinear()

	SetUniformMat4(loc int32, m math.Mat4)
	SetUniformVec3(loc int32, v math.Vec3)
	SetUniformInt(loc int32, v int32)

	Clear(color [4]float32)
	Enable(c Capability)
	BlendFunc(src, dst BlendFactor)
	// DrawTriangles draws count uint16 indices from the bound index buffer.
	DrawTriangles(count int)
	Viewport(width, height int)
}
