//go:build !ios && !android && (amd64 || arm64)

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Attribute binding locations, fixed across every generated program so
// vertex buffers never need rebinding on a program switch.
const (
	attrPosition      = 0
	attrTexCoordsBase = 1
)

// vertexTemplate is parameterized by %planes%: one a_TexCoordsN input
// and matching varying per plane (spec §4.5 "Shader generation").
const vertexTemplate = `#version 330 core
layout(location = 0) in vec2 a_Position;
%texcoord_inputs%
uniform mat4 u_Matrix;
%texcoord_varyings_out%
void main() {
	gl_Position = u_Matrix * vec4(a_Position, 0.0, 1.0);
%texcoord_passthrough%
}
`

// fragmentTemplate's %sample2d% slot holds the material-specific sample
// body; %planes% controls how many texture/varying/uniform declarations
// are emitted.
const fragmentTemplate = `#version 330 core
%texcoord_varyings_in%
%texture_uniforms%
uniform vec2 u_texelSize[%planes%];
uniform vec2 u_textureSize[%planes%];
uniform float u_opacity;
uniform mat4 u_c;
uniform mat4 u_colorMatrix;
uniform vec2 u_to8;
out vec4 fragColor;

%sample2d%

void main() {
	vec4 raw = sample2d();
	vec4 color = u_c * raw;
	color = u_colorMatrix * color;
	color.a *= u_opacity;
	fragColor = color;
}
`

// defaultSamplePlanar is the planar/semi-planar path: one texture lookup
// per plane, assembled into (Y, U, V, A) order; how the chroma is fetched
// depends on the plane count.
const defaultSamplePlanar = `vec4 sample2d() {
	float y = texture(u_Texture0, v_TexCoords0).r;
%chroma_fetch%
	return vec4(y, u, v, a);
}
`

// defaultSamplePacked is the shared program every packed-4:2:2 layout
// (UYVY, YUYV, YVYU, VYUY) uses; only the material's channel_map differs
// between them, so the generated GLSL is identical across that family.
const defaultSamplePacked = `vec4 sample2d() {
	vec4 texel = texture(u_Texture0, v_TexCoords0);
	return texel;
}
`

const defaultSampleRGB = `vec4 sample2d() {
	return texture(u_Texture0, v_TexCoords0);
}
`

// ShaderKind selects which sample2d body a VideoShader is generated
// with; it is derived from the material's chroma family, not its type
// hash, so that materials differing only in bit depth still share a
// sample body shape.
type ShaderKind int

const (
	ShaderKindRGB ShaderKind = iota
	ShaderKindPlanarYUV
	ShaderKindSemiPlanarYUV // NV12/NV21: one luma plane + one interleaved chroma plane
	ShaderKindPackedYUV
	ShaderKindExternalOES
)

// UniformSet holds every resolved uniform location a VideoShader needs
// to bind per spec §3's ShaderProgram description.
type UniformSet struct {
	Matrix      int32
	Textures    [4]int32
	TexelSize   int32
	TextureSize int32
	Opacity     int32
	C           int32
	ColorMatrix int32
	To8         int32
}

// ShaderProgram is a compiled, linked GL program plus its resolved
// uniform locations (spec §3 "ShaderProgram").
type ShaderProgram struct {
	program  uint32
	vertex   uint32
	fragment uint32
	uniforms UniformSet
	planes   int
	kind     ShaderKind
	valid    bool
}

// VideoShader generates, compiles, and drives one ShaderProgram for a
// family of materials sharing the same material_type (spec §4.5
// "Shader generation", "Program compile & link", "Update protocol").
type VideoShader struct {
	kind         ShaderKind
	planes       int
	program      *ShaderProgram
	needsRebuild bool
	onReady      func(*ShaderProgram)
}

// NewVideoShader creates a shader generator for the given kind and
// plane count; it does not touch the GL context until Build is called.
func NewVideoShader(kind ShaderKind, planeCount int) *VideoShader {
	return &VideoShader{kind: kind, planes: planeCount, needsRebuild: true}
}

// OnProgramReady registers the hook invoked once per successful Build
// (spec §4.5 "invoke the programReady hook").
func (s *VideoShader) OnProgramReady(fn func(*ShaderProgram)) { s.onReady = fn }

// RebuildLater marks the shader dirty; the actual rebuild happens on the
// next Update call (spec §4.5 "Program compile & link").
func (s *VideoShader) RebuildLater() { s.needsRebuild = true }

func (s *VideoShader) vertexSource() string {
	var texInputs, texOut, texPass strings.Builder
	for i := 0; i < s.planes; i++ {
		n := strconv.Itoa(i)
		fmt.Fprintf(&texInputs, "layout(location = %d) in vec2 a_TexCoords%s;\n", attrTexCoordsBase+i, n)
		fmt.Fprintf(&texOut, "out vec2 v_TexCoords%s;\n", n)
		fmt.Fprintf(&texPass, "\tv_TexCoords%s = a_TexCoords%s;\n", n, n)
	}
	src := vertexTemplate
	src = strings.Replace(src, "%texcoord_inputs%", texInputs.String(), 1)
	src = strings.Replace(src, "%texcoord_varyings_out%", texOut.String(), 1)
	src = strings.Replace(src, "%texcoord_passthrough%", strings.TrimRight(texPass.String(), "\n"), 1)
	return src
}

func (s *VideoShader) fragmentSource() string {
	var texIn, texUniforms, chromaFetch strings.Builder
	for i := 0; i < s.planes; i++ {
		n := strconv.Itoa(i)
		fmt.Fprintf(&texIn, "in vec2 v_TexCoords%s;\n", n)
		target := "sampler2D"
		if s.kind == ShaderKindExternalOES {
			target = "samplerExternalOES"
		}
		fmt.Fprintf(&texUniforms, "uniform %s u_Texture%s;\n", target, n)
	}
	if s.planes >= 3 {
		fmt.Fprintf(&chromaFetch, "\tfloat u = texture(u_Texture1, v_TexCoords1).r - 0.5;\n")
		fmt.Fprintf(&chromaFetch, "\tfloat v = texture(u_Texture2, v_TexCoords2).r - 0.5;\n")
	} else if s.planes == 2 {
		fmt.Fprintf(&chromaFetch, "\tvec2 chroma = texture(u_Texture1, v_TexCoords1).rg - 0.5;\n")
		fmt.Fprintf(&chromaFetch, "\tfloat u = chroma.x;\n\tfloat v = chroma.y;\n")
	} else {
		fmt.Fprintf(&chromaFetch, "\tfloat u = 0.0;\n\tfloat v = 0.0;\n")
	}
	chromaFetch.WriteString("\tfloat a = 1.0;\n")

	var sampleBody string
	switch s.kind {
	case ShaderKindRGB, ShaderKindExternalOES:
		sampleBody = defaultSampleRGB
	case ShaderKindPackedYUV:
		sampleBody = defaultSamplePacked
	default:
		sampleBody = strings.Replace(defaultSamplePlanar, "%chroma_fetch%", chromaFetch.String(), 1)
	}

	src := fragmentTemplate
	src = strings.Replace(src, "%texcoord_varyings_in%", texIn.String(), 1)
	src = strings.Replace(src, "%texture_uniforms%", texUniforms.String(), 1)
	src = strings.ReplaceAll(src, "%planes%", strconv.Itoa(maxInt(s.planes, 1)))
	src = strings.Replace(src, "%sample2d%", sampleBody, 1)
	return src
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Build compiles and links the generated program, binds attribute
// locations in declaration order, resolves every uniform once, and
// invokes the programReady hook (spec §4.5 "Program compile & link").
// On compile or link failure it returns ErrShaderCompileFailed and
// leaves s.program nil so Update keeps reporting the material dirty.
func (s *VideoShader) Build() (*ShaderProgram, error) {
	vsSrc := s.vertexSource()
	fsSrc := s.fragmentSource()

	vs, err := compileShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%w: vertex: %v", ErrShaderCompileFailed, err)
	}
	fs, err := compileShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, fmt.Errorf("%w: fragment: %v", ErrShaderCompileFailed, err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.BindAttribLocation(prog, attrPosition, gl.Str("a_Position\x00"))
	for i := 0; i < s.planes; i++ {
		name := fmt.Sprintf("a_TexCoords%d\x00", i)
		gl.BindAttribLocation(prog, uint32(attrTexCoordsBase+i), gl.Str(name))
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		logText := programInfoLog(prog)
		gl.DeleteProgram(prog)
		gl.DeleteShader(vs)
		gl.DeleteShader(fs)
		return nil, fmt.Errorf("%w: link: %s", ErrShaderCompileFailed, logText)
	}

	sp := &ShaderProgram{program: prog, vertex: vs, fragment: fs, planes: s.planes, kind: s.kind, valid: true}
	sp.uniforms = resolveUniforms(prog, s.planes)

	s.program = sp
	s.needsRebuild = false
	if s.onReady != nil {
		s.onReady(sp)
	}
	return sp, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	sh := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		logText := shaderInfoLog(sh)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s", logText)
	}
	return sh, nil
}

func shaderInfoLog(sh uint32) string {
	var length int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length))
	gl.GetShaderInfoLog(sh, length, nil, gl.Str(log))
	return log
}

func programInfoLog(prog uint32) string {
	var length int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length))
	gl.GetProgramInfoLog(prog, length, nil, gl.Str(log))
	return log
}

func resolveUniforms(prog uint32, planes int) UniformSet {
	var u UniformSet
	u.Matrix = gl.GetUniformLocation(prog, gl.Str("u_Matrix\x00"))
	u.TexelSize = gl.GetUniformLocation(prog, gl.Str("u_texelSize\x00"))
	u.TextureSize = gl.GetUniformLocation(prog, gl.Str("u_textureSize\x00"))
	u.Opacity = gl.GetUniformLocation(prog, gl.Str("u_opacity\x00"))
	u.C = gl.GetUniformLocation(prog, gl.Str("u_c\x00"))
	u.ColorMatrix = gl.GetUniformLocation(prog, gl.Str("u_colorMatrix\x00"))
	u.To8 = gl.GetUniformLocation(prog, gl.Str("u_to8\x00"))
	for i := 0; i < planes && i < 4; i++ {
		name := fmt.Sprintf("u_Texture%d\x00", i)
		u.Textures[i] = gl.GetUniformLocation(prog, gl.Str(name))
	}
	return u
}

// Update implements spec §4.5's "Update protocol": it builds the program
// if none has been built yet or RebuildLater marked it dirty, binds the
// program, uploads every uniform from the material, and binds the
// per-plane textures passed in textureIDs to units 0..planes-1. It does
// not compare material.Type with the type this shader was created for and
// never switches to a different program. textureIDs beyond this shader's
// plane count are ignored.
func (s *VideoShader) Update(material *Material, textureIDs [4]uint32) error {
	if s.needsRebuild || s.program == nil {
		if _, err := s.Build(); err != nil {
			return err
		}
	}
	p := s.program
	if !p.valid {
		return ErrShaderCompileFailed
	}

	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.uniforms.C, 1, false, &material.ChannelMap[0])
	gl.UniformMatrix4fv(p.uniforms.ColorMatrix, 1, false, &material.ColorMatrix[0])
	gl.Uniform1f(p.uniforms.Opacity, float32(material.Opacity))
	gl.Uniform2fv(p.uniforms.To8, 1, &material.To8[0])

	texel := make([]float32, 0, s.planes*2)
	texSize := make([]float32, 0, s.planes*2)
	for i := 0; i < s.planes && i < 4; i++ {
		texel = append(texel, material.TexelSize[i][0], material.TexelSize[i][1])
		texSize = append(texSize, float32(material.TextureSize[i][0]), float32(material.TextureSize[i][1]))
	}
	if len(texel) > 0 {
		gl.Uniform2fv(p.uniforms.TexelSize, int32(s.planes), &texel[0])
		gl.Uniform2fv(p.uniforms.TextureSize, int32(s.planes), &texSize[0])
	}

	target := uint32(gl.TEXTURE_2D)
	if material.Target == TextureTargetRectangle {
		target = gl.TEXTURE_RECTANGLE
	}
	for i := 0; i < s.planes && i < 4; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(target, textureIDs[i])
		gl.Uniform1i(p.uniforms.Textures[i], int32(i))
	}
	return nil
}

// SetMatrix uploads u_Matrix directly; used for the MVP transform the
// render loop computes per-surface (not part of Material).
func (p *ShaderProgram) SetMatrix(m Mat4) {
	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.uniforms.Matrix, 1, false, &m[0])
}

// Valid reports whether the program compiled and linked successfully.
func (p *ShaderProgram) Valid() bool { return p != nil && p.valid }

// Delete releases the GL program and its attached shader objects.
func (p *ShaderProgram) Delete() {
	if p == nil || p.program == 0 {
		return
	}
	gl.DeleteProgram(p.program)
	gl.DeleteShader(p.vertex)
	gl.DeleteShader(p.fragment)
	p.program = 0
	p.valid = false
}

// KindForMaterial chooses the sample2d body a material's chroma family
// needs. Unknown/unrecognized chromas fall back to the safest
// compatible program: 8-bit planar YUV 4:2:0 (spec §4.5 "Failure
// semantics").
func KindForMaterial(m *Material) ShaderKind {
	switch {
	case m.Target == TextureTargetExternalOES:
		return ShaderKindExternalOES
	case m.IsRGB:
		return ShaderKindRGB
	case m.PlaneCount == 2:
		return ShaderKindSemiPlanarYUV
	case m.PlaneCount == 1 && m.Target == TextureTargetRectangle:
		return ShaderKindPackedYUV
	case m.PlaneCount >= 3:
		return ShaderKindPlanarYUV
	default:
		return ShaderKindPlanarYUV
	}
}
