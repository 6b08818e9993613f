// Package model provides the mesh and primitive records shared by the scene
// loader, the resource builder and the render loop.
package model

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/solar/internal/engine/gpu"
)

// MaterialKind tags the payload a Material carries.
type MaterialKind int

const (
	MaterialTexture MaterialKind = iota
	MaterialColor
)

// Material is either a texture material (TextureCoords, Image) or a color
// material (BaseColor, Metallic, Roughness). Both hold a GPU texture once built.
type Material struct {
	Kind MaterialKind

	TextureCoords []float32
	Image         *image.RGBA

	BaseColor [4]float32
	Metallic  float32
	Roughness float32

	Texture gpu.Texture
	// Uploaded is set once Image has been sent to Texture.
	Uploaded bool
}

// HasImage reports whether the material carries pixel data to upload.
func (m *Material) HasImage() bool {
	return m.Kind == MaterialTexture && m.Image != nil
}

// Buffers holds the GPU buffers of one primitive.
type Buffers struct {
	Position  gpu.Buffer
	Color     gpu.Buffer
	Index     gpu.Buffer
	Normal    gpu.Buffer
	TexCoords []gpu.Buffer
}

// Primitive is one drawable triangle list with its materials.
type Primitive struct {
	Dim       int
	Faces     []float32
	Normals   []float32
	Indices   []uint16
	Colors    []float32
	Materials []Material
	Shader    gpu.ShaderKind

	// Set by the resource builder. A nil Program is never drawn.
	Buffers *Buffers
	Program *gpu.Program
}

// ErrInvalidPrimitive is returned by Validate.
var ErrInvalidPrimitive = errors.New("invalid primitive")

// VertexCount returns the number of vertices in Faces.
func (p *Primitive) VertexCount() int {
	if p.Dim <= 0 {
		return 0
	}
	return len(p.Faces) / p.Dim
}

// MaxIndex returns the largest index, or -1 when there are none.
func (p *Primitive) MaxIndex() int {
	max := -1
	for _, i := range p.Indices {
		if int(i) > max {
			max = int(i)
		}
	}
	return max
}

// Validate checks the geometry invariants the render loop relies on.
func (p *Primitive) Validate() error {
	if p.Dim != 2 && p.Dim != 3 {
		return fmt.Errorf("%w: dim %d", ErrInvalidPrimitive, p.Dim)
	}
	if len(p.Faces)%p.Dim != 0 {
		return fmt.Errorf("%w: %d position floats not a multiple of %d", ErrInvalidPrimitive, len(p.Faces), p.Dim)
	}
	n := p.VertexCount()
	if max := p.MaxIndex(); max >= n {
		return fmt.Errorf("%w: index %d out of range for %d vertices", ErrInvalidPrimitive, max, n)
	}
	if len(p.Normals) > 0 && len(p.Normals) != 3*n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidPrimitive, len(p.Normals)/3, n)
	}
	for i, m := range p.Materials {
		if m.Kind == MaterialTexture && len(m.TextureCoords) != 2*n {
			return fmt.Errorf("%w: material %d has %d texcoords for %d vertices",
				ErrInvalidPrimitive, i, len(m.TextureCoords)/2, n)
		}
	}
	return nil
}

// Built reports whether the primitive has a program and buffers.
func (p *Primitive) Built() bool {
	return p.Program != nil && p.Buffers != nil
}
