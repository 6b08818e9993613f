package shader

import (
	"strings"
	"testing"

	"github.com/Faultbox/solar/internal/engine/gpu"
)

func TestForDispatchesByKind(t *testing.T) {
	if got := For(gpu.ShaderColored); got.Kind != gpu.ShaderColored {
		t.Errorf("For(colored).Kind = %v", got.Kind)
	}
	if got := For(gpu.ShaderTextured); got.Kind != gpu.ShaderTextured {
		t.Errorf("For(textured).Kind = %v", got.Kind)
	}
}

func TestDescriptorsDeclareTheirNames(t *testing.T) {
	for _, desc := range []gpu.ProgramDesc{Colored, Textured} {
		src := desc.Vertex + desc.Fragment
		for _, name := range append(append([]string{}, desc.Attributes...), desc.Uniforms...) {
			if name == UniformSampler && desc.Kind == gpu.ShaderColored {
				continue
			}
			if !strings.Contains(src, name) {
				t.Errorf("%s program does not reference %s", desc.Kind, name)
			}
		}
		if !strings.HasPrefix(desc.Vertex, "#version 410 core") {
			t.Errorf("%s vertex source missing version line", desc.Kind)
		}
	}
}

func TestColoredHasNoTexCoord(t *testing.T) {
	for _, a := range Colored.Attributes {
		if a == AttribTexCoord {
			t.Fatal("colored program should not take texture coordinates")
		}
	}
}
