package assets

import (
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/solar/internal/engine/scene"
)

// Open parses a .gltf or .glb file.
func Open(path string) (*scene.Asset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	a, err := Decode(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return a, nil
}

// Decode converts a glTF document into scene records. External images are
// resolved relative to dir.
func Decode(doc *gltf.Document, dir string) (*scene.Asset, error) {
	d := decoder{doc: doc, dir: dir, images: make(map[int]image.Image)}

	a := &scene.Asset{Nodes: make([]*scene.Node, len(doc.Nodes))}
	for i, n := range doc.Nodes {
		node, err := d.node(i, n)
		if err != nil {
			return nil, err
		}
		a.Nodes[i] = node
	}

	for _, s := range doc.Scenes {
		def := scene.SceneDef{Name: s.Name}
		for _, idx := range s.Nodes {
			if idx < 0 || idx >= len(a.Nodes) {
				return nil, fmt.Errorf("scene %q: node %d out of range", s.Name, idx)
			}
			def.Nodes = append(def.Nodes, a.Nodes[idx])
		}
		a.Scenes = append(a.Scenes, def)
	}
	return a, nil
}

type decoder struct {
	doc    *gltf.Document
	dir    string
	images map[int]image.Image
}

func (d *decoder) node(i int, n *gltf.Node) (*scene.Node, error) {
	t, r := n.Translation, n.Rotation
	node := &scene.Node{
		ID:          strconv.Itoa(i),
		Name:        n.Name,
		Translation: &[3]float32{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation:    &[4]float32{float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])},
	}
	if n.Mesh == nil {
		return node, nil
	}
	if *n.Mesh < 0 || *n.Mesh >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("node %q: mesh %d out of range", n.Name, *n.Mesh)
	}

	m := d.doc.Meshes[*n.Mesh]
	def := &scene.MeshDef{Name: m.Name}
	for pi, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles && p.Mode != 0 {
			continue
		}
		prim, err := d.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
		}
		def.Primitives = append(def.Primitives, prim)
	}
	node.Mesh = def
	return node, nil
}

func (d *decoder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(d.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return d.doc.Accessors[idx], nil
}

func (d *decoder) primitive(p *gltf.Primitive) (scene.PrimitiveDef, error) {
	def := scene.PrimitiveDef{Attributes: make(map[string][]float32)}

	for name, idx := range p.Attributes {
		acr, err := d.accessor(idx)
		if err != nil {
			return def, fmt.Errorf("%s: %w", name, err)
		}
		switch {
		case name == gltf.POSITION:
			v, err := modeler.ReadPosition(d.doc, acr, nil)
			if err != nil {
				return def, fmt.Errorf("read positions: %w", err)
			}
			def.Attributes[scene.AttrPosition] = flatten3(v)
		case name == gltf.NORMAL:
			v, err := modeler.ReadNormal(d.doc, acr, nil)
			if err != nil {
				return def, fmt.Errorf("read normals: %w", err)
			}
			def.Attributes[scene.AttrNormal] = flatten3(v)
		case strings.HasPrefix(name, "TEXCOORD_"):
			v, err := modeler.ReadTextureCoord(d.doc, acr, nil)
			if err != nil {
				return def, fmt.Errorf("read %s: %w", name, err)
			}
			def.Attributes[name] = flatten2(v)
		}
	}

	vertices := len(def.Attributes[scene.AttrPosition]) / 3
	if p.Indices != nil {
		acr, err := d.accessor(*p.Indices)
		if err != nil {
			return def, fmt.Errorf("indices: %w", err)
		}
		idx, err := modeler.ReadIndices(d.doc, acr, nil)
		if err != nil {
			return def, fmt.Errorf("read indices: %w", err)
		}
		if def.Indices, err = narrowIndices(idx); err != nil {
			return def, err
		}
	} else {
		seq := make([]uint32, vertices)
		for i := range seq {
			seq[i] = uint32(i)
		}
		var err error
		if def.Indices, err = narrowIndices(seq); err != nil {
			return def, err
		}
	}

	if p.Material != nil {
		mat, err := d.material(*p.Material)
		if err != nil {
			return def, err
		}
		def.Material = mat
	}
	return def, nil
}

// narrowIndices converts to the 16-bit indices the renderer draws with.
func narrowIndices(idx []uint32) ([]uint16, error) {
	out := make([]uint16, len(idx))
	for i, v := range idx {
		if v > 0xFFFF {
			return nil, fmt.Errorf("index %d exceeds 16 bits", v)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

func (d *decoder) material(idx int) (*scene.MaterialDef, error) {
	if idx < 0 || idx >= len(d.doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", idx)
	}
	pbr := d.doc.Materials[idx].PBRMetallicRoughness
	if pbr == nil {
		return &scene.MaterialDef{}, nil
	}

	// Factors default to 1 when absent.
	def := &scene.MaterialDef{Metallic: 1, Roughness: 1}
	if pbr.MetallicFactor != nil {
		def.Metallic = float32(*pbr.MetallicFactor)
	}
	if pbr.RoughnessFactor != nil {
		def.Roughness = float32(*pbr.RoughnessFactor)
	}
	if f := pbr.BaseColorFactor; f != nil {
		def.BaseColorFactor = &[4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
	}
	if info := pbr.BaseColorTexture; info != nil {
		img, err := d.texture(info.Index)
		if err != nil {
			return nil, err
		}
		def.BaseColorTexture = &scene.TextureRef{TexCoord: info.TexCoord, Image: img}
	}
	return def, nil
}

func (d *decoder) texture(idx int) (image.Image, error) {
	if idx < 0 || idx >= len(d.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", idx)
	}
	src := d.doc.Textures[idx].Source
	if src == nil {
		return nil, fmt.Errorf("texture %d has no source", idx)
	}
	if img, ok := d.images[*src]; ok {
		return img, nil
	}
	if *src < 0 || *src >= len(d.doc.Images) {
		return nil, fmt.Errorf("image %d out of range", *src)
	}

	data, err := d.imageData(d.doc.Images[*src])
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", *src, err)
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", *src, err)
	}
	d.images[*src] = img
	return img, nil
}

func (d *decoder) imageData(img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		bvIdx := *img.BufferView
		if bvIdx < 0 || bvIdx >= len(d.doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", bvIdx)
		}
		bv := d.doc.BufferViews[bvIdx]
		buf := d.doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d exceeds buffer", bvIdx)
		}
		return buf.Data[bv.ByteOffset:end], nil
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has no data")
	}
	name, err := url.PathUnescape(img.URI)
	if err != nil {
		name = img.URI
	}
	return os.ReadFile(filepath.Join(d.dir, filepath.FromSlash(name)))
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, 3*len(v))
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

func flatten2(v [][2]float32) []float32 {
	out := make([]float32, 0, 2*len(v))
	for _, e := range v {
		out = append(out, e[0], e[1])
	}
	return out
}
