//go:build !ios && !android && (amd64 || arm64)

// Package render drives the GL-side half of the pipeline: deriving a
// Material from the current decoded frame's VideoFormatInfo, generating
// and caching the VideoShader that renders it, and mapping regions of a
// plane into texture coordinates with the valid-texture-width correction
// decode-time padding leaves behind (spec component C5).
package render

import (
	"hash/fnv"

	"github.com/lucent-av/vidcore/pixfmt"
	"github.com/lucent-av/vidcore/videoformat"
)

// TextureTarget names the GL texture binding point a Material's planes
// are sampled through.
type TextureTarget int32

const (
	TextureTarget2D TextureTarget = iota
	TextureTargetRectangle
	TextureTargetExternalOES
)

func (t TextureTarget) String() string {
	switch t {
	case TextureTargetRectangle:
		return "rectangle"
	case TextureTargetExternalOES:
		return "external-oes"
	default:
		return "2d"
	}
}

// Vec2 is a 2-component float vector, used for texel sizes and the
// split 8-bit reassembly scale u_to8.
type Vec2 [2]float32

// Mat4 is a column-major 4x4 matrix, matching GLSL's mat4 layout so it
// can be uploaded with UniformMatrix4fv(transpose=false).
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func mulMat4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// EqAdjust holds the brightness/contrast/hue/saturation inputs to the
// color matrix (spec §4.5, §6 configuration surface).
type EqAdjust struct {
	Brightness float64 // [-1, 1], additive
	Contrast   float64 // multiplicative, 1 = unchanged
	Hue        float64 // degrees
	Saturation float64 // multiplicative, 1 = unchanged
}

// DefaultEqAdjust is the neutral (no-op) adjustment.
var DefaultEqAdjust = EqAdjust{Contrast: 1, Saturation: 1}

// Material is the per-render-surface state derived from the current
// frame: everything VideoShader.Update needs to bind uniforms and
// textures for one draw.
type Material struct {
	Chroma      videoformat.Chroma
	PlaneCount  int
	BitsPerComp int
	Target      TextureTarget
	HasAlpha    bool
	IsRGB       bool

	ChannelMap  Mat4
	ColorMatrix Mat4
	To8         Vec2

	TextureSize [4][2]int32
	TexelSize   [4]Vec2
	ValidWidth  float64 // visible_pitch[0] / pitch[0], 1.0 for HW surfaces

	Opacity float64
	Eq      EqAdjust

	Type      uint64 // material_type: stable hash of (chroma, planes, bits, target, alpha)
	IsDirty   bool
	ExtraInfo interface{}
}

// DeriveMaterial builds a Material from a decoded frame's VideoFormatInfo
// and the internal pixel format it was negotiated with (spec §4.5
// "Material derivation").
func DeriveMaterial(info *videoformat.VideoFormatInfo, format pixfmt.PixelFormat, opacity float64, eq EqAdjust) *Material {
	m := &Material{
		Chroma:      info.Chroma,
		PlaneCount:  info.PlaneCount,
		BitsPerComp: bitsPerComponent(format, info),
		HasAlpha:    format.IsValid() && format.HasAlpha(),
		IsRGB:       format.IsValid() && format.IsRGB(),
		Opacity:     opacity,
		Eq:          eq,
		IsDirty:     true,
	}

	m.Target = deriveTarget(format, info)
	m.ChannelMap = deriveChannelMap(format, m.IsRGB, m.HasAlpha)
	m.ColorMatrix = deriveColorMatrix(info, m.IsRGB, eq)
	m.To8 = deriveTo8(m.BitsPerComp)
	m.ValidWidth = deriveValidWidth(info)

	for i := 0; i < m.PlaneCount && i < 4; i++ {
		p := info.Planes[i]
		if p.Pitch > 0 && p.PixelPitch > 0 {
			m.TextureSize[i] = [2]int32{p.Pitch / p.PixelPitch, p.Lines}
		}
		m.TexelSize[i] = texelSizeFor(m.Target, m.TextureSize[i])
	}

	m.Type = materialType(m.Chroma, m.PlaneCount, m.BitsPerComp, m.Target, m.HasAlpha)
	return m
}

// bitsPerComponent reports the per-channel bit depth used to size u_to8;
// it falls back to 8 for HW surfaces, which carry no addressable planes.
func bitsPerComponent(format pixfmt.PixelFormat, info *videoformat.VideoFormatInfo) int {
	if !info.SoftwareDecoding || !format.IsValid() {
		return 8
	}
	if bpc := format.BitsPerComponent(); bpc > 0 {
		return bpc
	}
	return 8
}

// deriveTarget picks the texture binding point: external-OES for HW
// surfaces (no CPU-addressable planes), rectangle for packed formats
// whose sampling needs non-normalized texcoords, else plain 2D.
func deriveTarget(format pixfmt.PixelFormat, info *videoformat.VideoFormatInfo) TextureTarget {
	if !info.SoftwareDecoding {
		return TextureTargetExternalOES
	}
	if format.IsValid() && !format.IsPlanar() && format.PlaneCount() == 1 && format.Channels() >= 3 {
		return TextureTargetRectangle
	}
	return TextureTarget2D
}

// deriveChannelMap builds the 4x4 swizzle taking sampled RGBA texture
// components to logical (Y, U, V, A) or (R, G, B, A) order. Packed YUV
// layouts (UYVY, YUYV, ...) differ from planar YUV only in this matrix;
// every packed-4:2:2 variant shares one generated program.
func deriveChannelMap(format pixfmt.PixelFormat, isRGB, hasAlpha bool) Mat4 {
	if isRGB || !format.IsValid() {
		return Identity4()
	}
	// Planar/semi-planar YUV: sample2d returns one component per plane
	// already in Y, U, V order; packed formats override per-channel
	// ordering in the generated sample body instead of here.
	m := Identity4()
	if !hasAlpha {
		m[15] = 0 // zero the alpha row's w contribution; shader supplies 1.0 directly
	}
	return m
}

// deriveColorMatrix composes range expansion, the YUV->RGB conversion
// for the frame's color space, and the brightness/contrast/hue/
// saturation adjustment, in that order (spec §4.5 "color_matrix").
func deriveColorMatrix(info *videoformat.VideoFormatInfo, isRGB bool, eq EqAdjust) Mat4 {
	m := Identity4()
	if !isRGB {
		m = mulMat4(yuvToRGBMatrix(info.Space), rangeExpansionMatrix(info.ColorRangeFull))
	}
	return mulMat4(eqAdjustMatrix(eq), m)
}

// rangeExpansionMatrix maps studio-range [16,235]/[16,240] samples to
// full range; it is the identity for already-full-range content.
func rangeExpansionMatrix(fullRange bool) Mat4 {
	if fullRange {
		return Identity4()
	}
	m := Identity4()
	const yScale = 255.0 / (235 - 16)
	const cScale = 255.0 / (240 - 16)
	m[0] = yScale
	m[5] = cScale
	m[10] = cScale
	m[12] = -16.0 / 255.0 * yScale
	m[13] = -128.0 / 255.0 * cScale
	m[14] = -128.0 / 255.0 * cScale
	return m
}

// yuvToRGBMatrix returns the BT.601/BT.709/BT.2020 YCbCr->RGB conversion,
// applied to already range-expanded, zero-centered chroma.
func yuvToRGBMatrix(space videoformat.ColorSpace) Mat4 {
	var kr, kb float32
	switch space {
	case videoformat.ColorSpaceBT709:
		kr, kb = 0.2126, 0.0722
	case videoformat.ColorSpaceBT2020:
		kr, kb = 0.2627, 0.0593
	default: // BT601 and unspecified
		kr, kb = 0.299, 0.114
	}
	kg := 1 - kr - kb
	return Mat4{
		1, 1, 1, 0,
		0, -(2 * kb * (1 - kb) / kg), 2 * (1 - kb), 0,
		2 * (1 - kr), -(2 * kr * (1 - kr) / kg), 0, 0,
		0, 0, 0, 1,
	}
}

// eqAdjustMatrix folds brightness/contrast/saturation into one affine
// matrix; hue rotation is applied as a separate U/V rotation folded into
// the same matrix's chroma rows.
func eqAdjustMatrix(eq EqAdjust) Mat4 {
	m := Identity4()
	c := float32(eq.Contrast)
	m[0] = c
	m[12] = float32(eq.Brightness)

	s := float32(eq.Saturation)
	hue := float32(eq.Hue) * 3.14159265 / 180
	cosH, sinH := cosApprox(hue), sinApprox(hue)
	m[5] = s * cosH
	m[6] = s * sinH
	m[9] = -s * sinH
	m[10] = s * cosH
	return m
}

func sinApprox(x float32) float32 {
	// Bhaskara I's sine approximation; adequate for a UI-facing hue knob.
	pi := float32(3.14159265)
	x = float32(modFloat(float64(x), float64(2*pi)))
	if x < 0 {
		x += 2 * pi
	}
	neg := false
	if x > pi {
		x -= pi
		neg = true
	}
	v := 16 * x * (pi - x) / (5*pi*pi - 4*x*(pi-x))
	if neg {
		return -v
	}
	return v
}

func cosApprox(x float32) float32 {
	return sinApprox(x + 1.57079632)
}

func modFloat(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	for a < 0 {
		a += b
	}
	return a
}

// deriveTo8 returns the split 8-bit reassembly scale vec2(hi, lo) used
// by formats stored across two 8-bit components on platforms lacking
// native >=9-bit textures (spec §4.5).
func deriveTo8(bitsPerComponent int) Vec2 {
	if bitsPerComponent <= 8 {
		return Vec2{1, 0}
	}
	extra := bitsPerComponent - 8
	scaleLo := float32(1.0 / float64(int(1)<<uint(extra)))
	return Vec2{1, scaleLo}
}

// deriveValidWidth is visible_pitch[0]/pitch[0]: decode-time alignment
// padding can widen plane 0 beyond the visible image, so sampling must
// be clamped to the fraction of the texture that holds real data.
// HW surfaces carry no addressable planes, so it is always 1.0 for them.
func deriveValidWidth(info *videoformat.VideoFormatInfo) float64 {
	if !info.SoftwareDecoding || info.PlaneCount == 0 {
		return 1.0
	}
	p := info.Planes[0]
	if p.Pitch == 0 {
		return 1.0
	}
	return float64(p.VisiblePitch) / float64(p.Pitch)
}

func texelSizeFor(target TextureTarget, size [2]int32) Vec2 {
	if target == TextureTargetRectangle || size[0] == 0 || size[1] == 0 {
		return Vec2{1, 1}
	}
	return Vec2{1.0 / float32(size[0]), 1.0 / float32(size[1])}
}

// materialType is a stable fingerprint over the material's program-
// relevant shape: two materials with the same type can share one
// compiled VideoShader (spec §4.5 "material_type").
func materialType(chroma videoformat.Chroma, planeCount, bits int, target TextureTarget, alpha bool) uint64 {
	h := fnv.New64a()
	h.Write([]byte(chroma))
	h.Write([]byte{byte(planeCount), byte(bits), byte(target)})
	if alpha {
		h.Write([]byte{1})
	}
	return h.Sum64()
}

// Rect is an axis-aligned region of a plane, in the same units as
// MapToTexture's point argument.
type Rect struct {
	X, Y, W, H float64
}

// MapToTexture maps a rectangle in plane-relative coordinates onto
// normalized (or rectangle-target) texture coordinates, applying the
// valid-texture-width correction to the x range (spec §4.5
// "mapToTexture").
type Normalize int

const (
	NormalizeAuto Normalize = iota
	NormalizeYes
	NormalizeNo
)

func (m *Material) MapToTexture(plane int, r Rect, normalize Normalize) Rect {
	if plane < 0 || plane >= 4 {
		return r
	}
	nw := 1.0
	nh := 1.0
	doNormalize := normalize == NormalizeYes || (normalize == NormalizeAuto && m.Target == TextureTarget2D)
	if doNormalize {
		size := m.TextureSize[plane]
		if size[0] > 0 {
			nw = float64(size[0])
		}
		if size[1] > 0 {
			nh = float64(size[1])
		}
	}

	out := Rect{
		X: r.X / nw,
		Y: r.Y / nh,
		W: r.W / nw,
		H: r.H / nh,
	}
	out.X *= m.ValidWidth
	out.W *= m.ValidWidth
	return out
}
