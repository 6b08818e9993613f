// Package scene turns parsed scene records into meshes and placement objects.
package scene

import (
	"image"
	"strconv"
)

// Attribute keys used in PrimitiveDef.Attributes.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
)

// TexCoordAttr returns the attribute key for texture coordinate set n.
func TexCoordAttr(n int) string {
	return "TEXCOORD_" + strconv.Itoa(n)
}

// Asset is a parsed scene file.
type Asset struct {
	Scenes []SceneDef
	// Nodes is the flat node list the scenes refer into.
	Nodes []*Node
}

// SceneDef is one named scene in an asset.
type SceneDef struct {
	Name  string
	Nodes []*Node
}

// Node is an element of a scene. Mesh is nil for cameras, lights and empties.
type Node struct {
	ID          string
	Name        string
	Mesh        *MeshDef
	Translation *[3]float32
	Rotation    *[4]float32
}

// MeshDef is a named list of primitives.
type MeshDef struct {
	Name       string
	Primitives []PrimitiveDef
}

// PrimitiveDef holds decoded vertex attributes and indices.
type PrimitiveDef struct {
	Attributes map[string][]float32
	Indices    []uint16
	Material   *MaterialDef
}

// MaterialDef is the metallic-roughness subset the loader reads.
type MaterialDef struct {
	BaseColorFactor  *[4]float32
	BaseColorTexture *TextureRef
	Metallic         float32
	Roughness        float32
}

// TextureRef points a material at an image and the texcoord set it uses.
type TextureRef struct {
	TexCoord int
	Image    image.Image
}
