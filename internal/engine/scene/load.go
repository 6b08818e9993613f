package scene

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/gpu"
	"github.com/Faultbox/solar/internal/engine/model"
	"github.com/Faultbox/solar/internal/logger"
	"github.com/Faultbox/solar/pkg/math"
)

// ErrSceneNotFound is returned when the asset has no scene of the given name.
var ErrSceneNotFound = errors.New("scene not found")

// Load builds meshes and placement objects for the scene called name.
// The result shares no slices with asset, so loading twice yields
// independent records.
func Load(asset *Asset, name string) (*Scene, error) {
	if asset == nil {
		return nil, errors.New("load scene: nil asset")
	}

	var def *SceneDef
	for i := range asset.Scenes {
		if asset.Scenes[i].Name == name {
			def = &asset.Scenes[i]
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}

	s := &Scene{Name: name}
	for _, node := range def.Nodes {
		if node == nil {
			continue
		}
		if node.Mesh == nil {
			s.Others = append(s.Others, objectFromNode(node))
			continue
		}
		mesh, err := meshFromNode(node)
		if err != nil {
			return nil, err
		}
		s.Meshes = append(s.Meshes, mesh)
	}

	logger.Debug("scene loaded",
		zap.String("scene", name),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("others", len(s.Others)),
	)
	return s, nil
}

func objectFromNode(node *Node) *camera.Object {
	obj := &camera.Object{ID: node.ID, Name: node.Name}
	if node.Translation != nil {
		obj.Translation = *node.Translation
	}
	if node.Rotation != nil {
		obj.Rotation = *node.Rotation
	}
	return obj
}

func meshFromNode(node *Node) (*model.Mesh, error) {
	prims := make([]*model.Primitive, 0, len(node.Mesh.Primitives))
	for i := range node.Mesh.Primitives {
		p := primitiveFromDef(&node.Mesh.Primitives[i])
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", node.Name, i, err)
		}
		prims = append(prims, p)
	}

	mesh := model.NewMesh(node.ID, node.Name, prims)
	if node.Translation != nil {
		t := *node.Translation
		mesh.Location = math.Vec3{X: t[0], Y: t[1], Z: t[2]}
	}
	return mesh, nil
}

func primitiveFromDef(def *PrimitiveDef) *model.Primitive {
	p := &model.Primitive{
		Dim:     3,
		Faces:   slices.Clone(def.Attributes[AttrPosition]),
		Normals: slices.Clone(def.Attributes[AttrNormal]),
		Indices: slices.Clone(def.Indices),
		Shader:  gpu.ShaderTextured,
	}

	var pbr MaterialDef
	if def.Material != nil {
		pbr = *def.Material
	}
	if pbr.BaseColorFactor != nil {
		p.Colors = slices.Clone(pbr.BaseColorFactor[:])
	}

	switch {
	case pbr.BaseColorTexture != nil:
		tex := pbr.BaseColorTexture
		p.Materials = []model.Material{{
			Kind:          model.MaterialTexture,
			TextureCoords: texCoords(def, tex.TexCoord, p.VertexCount()),
			Image:         toRGBA(tex.Image),
		}}
	case pbr.BaseColorFactor != nil:
		p.Materials = []model.Material{{
			Kind:          model.MaterialTexture,
			TextureCoords: texCoords(def, 0, p.VertexCount()),
			Image:         SolidBitmap(BitmapSize, BitmapSize, *pbr.BaseColorFactor),
			BaseColor:     *pbr.BaseColorFactor,
			Metallic:      pbr.Metallic,
			Roughness:     pbr.Roughness,
		}}
	default:
		p.Materials = []model.Material{{
			Kind:          model.MaterialTexture,
			TextureCoords: texCoords(def, 0, p.VertexCount()),
			Image:         SolidBitmap(BitmapSize, BitmapSize, fallbackColor),
		}}
	}
	return p
}

// texCoords copies texcoord set n. A primitive without that set gets zeros,
// which sample a solid bitmap correctly.
func texCoords(def *PrimitiveDef, n, vertices int) []float32 {
	if coords, ok := def.Attributes[TexCoordAttr(n)]; ok {
		return slices.Clone(coords)
	}
	return make([]float32, 2*vertices)
}
