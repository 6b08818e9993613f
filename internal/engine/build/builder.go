// Package build uploads mesh geometry to a gpu.Device and attaches programs.
package build

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/internal/engine/shader"
	"github.com/Faultbox/solar/internal/logger"
)

type cachedProgram struct {
	program *gpu.Program
	refs    int
}

// Builder creates and releases the GPU resources of primitives. Programs are
// compiled once per kind and shared; each primitive holds one reference.
type Builder struct {
	dev      gpu.Device
	programs map[gpu.ShaderKind]*cachedProgram
}

// NewBuilder returns a builder for dev.
func NewBuilder(dev gpu.Device) *Builder {
	return &Builder{
		dev:      dev,
		programs: make(map[gpu.ShaderKind]*cachedProgram),
	}
}

// Build creates buffers, textures and a program for every primitive.
// Primitives that were already built are released first. A compile failure
// stops the build; the failing primitive keeps a nil program.
func (b *Builder) Build(meshes []*model.Mesh) error {
	for _, m := range meshes {
		for i, p := range m.Primitives {
			if err := b.BuildPrimitive(p); err != nil {
				return fmt.Errorf("build mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
		logger.Debug("mesh built",
			zap.String("mesh", m.Name),
			zap.Int("primitives", len(m.Primitives)),
		)
	}
	return nil
}

// BuildPrimitive builds a single primitive.
func (b *Builder) BuildPrimitive(p *model.Primitive) error {
	b.ReleasePrimitive(p)

	prog, err := b.acquire(p.Shader)
	if err != nil {
		return err
	}

	bufs := &model.Buffers{
		Position: b.dev.CreateVertexBuffer(p.Faces),
		Color:    b.dev.CreateVertexBuffer(p.Colors),
		Index:    b.dev.CreateIndexBuffer(p.Indices),
		Normal:   b.dev.CreateVertexBuffer(p.Normals),
	}
	for i := range p.Materials {
		mat := &p.Materials[i]
		if mat.Kind == model.MaterialTexture {
			bufs.TexCoords = append(bufs.TexCoords, b.dev.CreateVertexBuffer(mat.TextureCoords))
		}
		mat.Texture = b.dev.CreateTexture()
		mat.Uploaded = false
	}

	p.Buffers = bufs
	p.Program = prog
	return nil
}

// Release frees the resources of every primitive in meshes.
func (b *Builder) Release(meshes []*model.Mesh) {
	for _, m := range meshes {
		for _, p := range m.Primitives {
			b.ReleasePrimitive(p)
		}
	}
}

// ReleasePrimitive frees p's buffers, textures and program reference.
// It is a no-op for an unbuilt primitive.
func (b *Builder) ReleasePrimitive(p *model.Primitive) {
	if p.Buffers != nil {
		bufs := p.Buffers
		for _, buf := range []gpu.Buffer{bufs.Position, bufs.Color, bufs.Index, bufs.Normal} {
			if buf != 0 {
				b.dev.DeleteBuffer(buf)
			}
		}
		for _, buf := range bufs.TexCoords {
			if buf != 0 {
				b.dev.DeleteBuffer(buf)
			}
		}
		p.Buffers = nil
	}
	for i := range p.Materials {
		mat := &p.Materials[i]
		if mat.Texture != 0 {
			b.dev.DeleteTexture(mat.Texture)
			mat.Texture = 0
			mat.Uploaded = false
		}
	}
	if p.Program != nil {
		b.release(p.Program)
		p.Program = nil
	}
}

func (b *Builder) acquire(kind gpu.ShaderKind) (*gpu.Program, error) {
	if c, ok := b.programs[kind]; ok {
		c.refs++
		return c.program, nil
	}
	prog, err := b.dev.CreateProgram(shader.For(kind))
	if err != nil {
		logger.Error("shader program failed",
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		return nil, err
	}
	b.programs[kind] = &cachedProgram{program: prog, refs: 1}
	return prog, nil
}

func (b *Builder) release(prog *gpu.Program) {
	c, ok := b.programs[prog.Kind]
	if !ok || c.program != prog {
		return
	}
	c.refs--
	if c.refs <= 0 {
		b.dev.DeleteProgram(prog)
		delete(b.programs, prog.Kind)
	}
}

// Programs returns the number of live programs held by the builder.
func (b *Builder) Programs() int {
	return len(b.programs)
}
