package build

import (
	"errors"
	"testing"

	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/engine/gpu/gputest"
	"github.com/Faultbox/solar/internal/engine/model"
)

func testMesh(name string, kinds ...gpu.ShaderKind) *model.Mesh {
	var prims []*model.Primitive
	for _, k := range kinds {
		prims = append(prims, &model.Primitive{
			Dim:     3,
			Faces:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Normals: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
			Indices: []uint16{0, 1, 2},
			Colors:  []float32{1, 0, 0, 1},
			Shader:  k,
			Materials: []model.Material{{
				Kind:          model.MaterialTexture,
				TextureCoords: []float32{0, 0, 1, 0, 0, 1},
			}},
		})
	}
	return model.NewMesh(name, name, prims)
}

func TestBuildCreatesResources(t *testing.T) {
	dev := gputest.NewDevice()
	b := NewBuilder(dev)
	m := testMesh("tri", gpu.ShaderTextured)

	if err := b.Build([]*model.Mesh{m}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := m.Primitives[0]
	if !p.Built() {
		t.Fatal("primitive not built")
	}
	if p.Program.Kind != gpu.ShaderTextured {
		t.Errorf("program kind = %v", p.Program.Kind)
	}
	// position, color, index, normal + one texcoord buffer
	if got := dev.LiveBuffers(); got != 5 {
		t.Errorf("live buffers = %d, want 5", got)
	}
	if len(p.Buffers.TexCoords) != 1 {
		t.Errorf("texcoord buffers = %d, want 1", len(p.Buffers.TexCoords))
	}
	if got := dev.LiveTextures(); got != 1 {
		t.Errorf("live textures = %d, want 1", got)
	}
	if p.Materials[0].Texture == 0 {
		t.Error("material has no texture")
	}
	if len(dev.Uploads) != 0 {
		t.Errorf("uploads during build = %d, want 0", len(dev.Uploads))
	}
	idx, ok := dev.BufferData[p.Buffers.Index].([]uint16)
	if !ok || len(idx) != 3 {
		t.Errorf("index buffer data = %v", dev.BufferData[p.Buffers.Index])
	}
}

func TestProgramsSharedPerKind(t *testing.T) {
	dev := gputest.NewDevice()
	b := NewBuilder(dev)
	meshes := []*model.Mesh{
		testMesh("a", gpu.ShaderTextured, gpu.ShaderColored),
		testMesh("b", gpu.ShaderTextured),
	}
	if err := b.Build(meshes); err != nil {
		t.Fatal(err)
	}
	if got := dev.LivePrograms(); got != 2 {
		t.Fatalf("live programs = %d, want 2", got)
	}
	if meshes[0].Primitives[0].Program != meshes[1].Primitives[0].Program {
		t.Error("textured primitives do not share a program")
	}
	if meshes[0].Primitives[1].Program.Kind != gpu.ShaderColored {
		t.Error("colored primitive got the wrong program")
	}

	b.Release(meshes[:1])
	if got := dev.LivePrograms(); got != 1 {
		t.Errorf("after partial release live programs = %d, want 1", got)
	}
	b.Release(meshes[1:])
	if got := dev.LivePrograms(); got != 0 {
		t.Errorf("after full release live programs = %d, want 0", got)
	}
}

func TestRebuildDoesNotLeak(t *testing.T) {
	dev := gputest.NewDevice()
	b := NewBuilder(dev)
	m := testMesh("tri", gpu.ShaderTextured)
	meshes := []*model.Mesh{m}

	if err := b.Build(meshes); err != nil {
		t.Fatal(err)
	}
	first := *m.Primitives[0].Buffers
	buffers, textures := dev.LiveBuffers(), dev.LiveTextures()

	if err := b.Build(meshes); err != nil {
		t.Fatal(err)
	}
	if dev.LiveBuffers() != buffers || dev.LiveTextures() != textures || dev.LivePrograms() != 1 {
		t.Errorf("rebuild leaked: buffers %d->%d textures %d->%d programs %d",
			buffers, dev.LiveBuffers(), textures, dev.LiveTextures(), dev.LivePrograms())
	}
	if m.Primitives[0].Buffers.Position == first.Position {
		t.Error("rebuild reused the released position buffer")
	}
}

func TestReleaseFreesEverything(t *testing.T) {
	dev := gputest.NewDevice()
	b := NewBuilder(dev)
	meshes := []*model.Mesh{testMesh("a", gpu.ShaderTextured, gpu.ShaderColored)}
	if err := b.Build(meshes); err != nil {
		t.Fatal(err)
	}
	b.Release(meshes)
	b.Release(meshes)

	if dev.LiveBuffers() != 0 || dev.LiveTextures() != 0 || dev.LivePrograms() != 0 {
		t.Errorf("live after release: buffers %d textures %d programs %d",
			dev.LiveBuffers(), dev.LiveTextures(), dev.LivePrograms())
	}
	for _, p := range meshes[0].Primitives {
		if p.Program != nil || p.Buffers != nil || p.Materials[0].Texture != 0 {
			t.Errorf("primitive still holds handles: %+v", p)
		}
	}
}

func TestCompileErrorLeavesProgramNil(t *testing.T) {
	dev := gputest.NewDevice()
	dev.CompileErr[gpu.ShaderColored] = errors.New("syntax error")
	b := NewBuilder(dev)
	m := testMesh("bad", gpu.ShaderColored)

	err := b.Build([]*model.Mesh{m})
	if err == nil {
		t.Fatal("Build() succeeded with a failing shader")
	}
	if m.Primitives[0].Program != nil {
		t.Error("program set despite compile failure")
	}
	if dev.LiveBuffers() != 0 {
		t.Errorf("buffers created for failed primitive: %d", dev.LiveBuffers())
	}
}
