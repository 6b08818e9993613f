// Package shader holds the GLSL sources and program descriptors for the two
// shading pipelines. Compilation lives in the renderer so this package stays
// free of GL bindings.
package shader

import "github.com/Faultbox/solar/internal/engine/gpu"

// Attribute names shared by both pipelines.
const (
	AttribPosition = "aVertexPosition"
	AttribColor    = "aVertexColor"
	AttribNormal   = "aVertexNormal"
	AttribTexCoord = "aTextureCoord"
)

// Uniform names shared by both pipelines.
const (
	UniformProjection  = "uProjectionMatrix"
	UniformModelView   = "uModelViewMatrix"
	UniformNormal      = "uNormalMatrix"
	UniformSampler     = "uSampler"
	UniformAmbient     = "uAmbientLight"
	UniformDirectional = "uDirectionalVector"
)

var uniforms = []string{
	UniformProjection,
	UniformModelView,
	UniformNormal,
	UniformSampler,
	UniformAmbient,
	UniformDirectional,
}

// Colored shades per-vertex color with ambient and one directional light.
var Colored = gpu.ProgramDesc{
	Kind:       gpu.ShaderColored,
	Vertex:     coloredVertex,
	Fragment:   coloredFragment,
	Attributes: []string{AttribPosition, AttribColor, AttribNormal},
	Uniforms:   uniforms,
}

// Textured samples uSampler with ambient and one directional light.
var Textured = gpu.ProgramDesc{
	Kind:       gpu.ShaderTextured,
	Vertex:     texturedVertex,
	Fragment:   texturedFragment,
	Attributes: []string{AttribPosition, AttribNormal, AttribTexCoord},
	Uniforms:   uniforms,
}

// For returns the descriptor for kind.
func For(kind gpu.ShaderKind) gpu.ProgramDesc {
	if kind == gpu.ShaderColored {
		return Colored
	}
	return Textured
}

const coloredVertex = `#version 410 core

in vec4 aVertexPosition;
in vec4 aVertexColor;
in vec3 aVertexNormal;

uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;
uniform mat4 uNormalMatrix;
uniform vec3 uAmbientLight;
uniform vec3 uDirectionalVector;

out vec4 vColor;
out vec3 vLighting;

void main() {
    gl_Position = uProjectionMatrix * uModelViewMatrix * aVertexPosition;
    vColor = aVertexColor;

    vec4 transformedNormal = uNormalMatrix * vec4(aVertexNormal, 1.0);
    float directional = max(dot(transformedNormal.xyz, normalize(uDirectionalVector)), 0.0);
    vLighting = uAmbientLight + vec3(1.0) * directional;
}
`

const coloredFragment = `#version 410 core

in vec4 vColor;
in vec3 vLighting;

out vec4 FragColor;

void main() {
    FragColor = vec4(vColor.rgb * vLighting, vColor.a);
}
`

const texturedVertex = `#version 410 core

in vec4 aVertexPosition;
in vec3 aVertexNormal;
in vec2 aTextureCoord;

uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;
uniform mat4 uNormalMatrix;
uniform vec3 uAmbientLight;
uniform vec3 uDirectionalVector;

out vec2 vTextureCoord;
out vec3 vLighting;

void main() {
    gl_Position = uProjectionMatrix * uModelViewMatrix * aVertexPosition;
    vTextureCoord = aTextureCoord;

    vec4 transformedNormal = uNormalMatrix * vec4(aVertexNormal, 1.0);
    float directional = max(dot(transformedNormal.xyz, normalize(uDirectionalVector)), 0.0);
    vLighting = uAmbientLight + vec3(1.0) * directional;
}
`

const texturedFragment = `#version 410 core

in vec2 vTextureCoord;
in vec3 vLighting;

uniform sampler2D uSampler;

out vec4 FragColor;

void main() {
    vec4 texel = texture(uSampler, vTextureCoord);
    FragColor = vec4(texel.rgb * vLighting, texel.a);
}
`
