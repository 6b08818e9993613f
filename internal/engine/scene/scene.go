package scene

import (
	"github.com/Faultbox/solar/internal/engine/camera"
	"github.com/Faultbox/solar/internal/engine/model"
)

// Scene is the result of loading one named scene.
type Scene struct {
	Name   string
	Meshes []*model.Mesh
	// Others holds mesh-less nodes: cameras, lights and empties.
	Others []*camera.Object
}

// Mesh returns the first mesh called name, or nil.
func (s *Scene) Mesh(name string) *model.Mesh {
	if s == nil {
		return nil
	}
	for _, m := range s.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Object returns the first mesh-less node called name, or nil.
func (s *Scene) Object(name string) *camera.Object {
	if s == nil {
		return nil
	}
	for _, o := range s.Others {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Primitives returns every primitive of every mesh in order.
func (s *Scene) Primitives() []*model.Primitive {
	var out []*model.Primitive
	for _, m := range s.Meshes {
		out = append(out, m.Primitives...)
	}
	return out
}
