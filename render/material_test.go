//go:build !ios && !android && (amd64 || arm64)

package render

import (
	"math"
	"testing"

	"github.com/lucent-av/vidcore/pixfmt"
	"github.com/lucent-av/vidcore/videoformat"
)

func planarInfo() *videoformat.VideoFormatInfo {
	return &videoformat.VideoFormatInfo{
		Chroma:          "yuv420p",
		SoftwareDecoding: true,
		Width:            1920,
		Height:           1080,
		VisibleWidth:     1900,
		VisibleHeight:    1080,
		PlaneCount:       3,
		Planes: [4]videoformat.PlaneInfo{
			{Pitch: 1920, VisiblePitch: 1900, Lines: 1080, VisibleLines: 1080, PixelPitch: 1},
			{Pitch: 960, VisiblePitch: 950, Lines: 540, VisibleLines: 540, PixelPitch: 1},
			{Pitch: 960, VisiblePitch: 950, Lines: 540, VisibleLines: 540, PixelPitch: 1},
		},
		Space:          videoformat.ColorSpaceBT709,
		ColorRangeFull: false,
	}
}

func TestDeriveMaterialPlanarYUV(t *testing.T) {
	info := planarInfo()
	m := DeriveMaterial(info, pixfmt.YUV420P, 1.0, DefaultEqAdjust)

	if m.PlaneCount != 3 {
		t.Fatalf("PlaneCount = %d, want 3", m.PlaneCount)
	}
	if m.Target != TextureTarget2D {
		t.Fatalf("Target = %v, want 2D", m.Target)
	}
	if m.IsRGB {
		t.Fatal("IsRGB = true for a YUV format")
	}
	if m.BitsPerComp != 8 {
		t.Fatalf("BitsPerComp = %d, want 8", m.BitsPerComp)
	}
	if got := m.TextureSize[0]; got != [2]int32{1920, 1080} {
		t.Fatalf("TextureSize[0] = %v, want {1920,1080}", got)
	}

	wantValid := 1900.0 / 1920.0
	if math.Abs(m.ValidWidth-wantValid) > 1e-9 {
		t.Fatalf("ValidWidth = %v, want %v", m.ValidWidth, wantValid)
	}
}

func TestDeriveMaterialHWSurfaceHasNoPlanes(t *testing.T) {
	info := &videoformat.VideoFormatInfo{
		Chroma:           "nv12",
		SoftwareDecoding: false,
		Width:            1920,
		Height:           1080,
		PlaneCount:       0,
	}
	m := DeriveMaterial(info, pixfmt.Invalid, 1.0, DefaultEqAdjust)
	if m.Target != TextureTargetExternalOES {
		t.Fatalf("Target = %v, want external-oes", m.Target)
	}
	if m.ValidWidth != 1.0 {
		t.Fatalf("ValidWidth = %v, want 1.0 for HW surface", m.ValidWidth)
	}
}

func TestMaterialTypeStableAndDistinguishing(t *testing.T) {
	info := planarInfo()
	a := DeriveMaterial(info, pixfmt.YUV420P, 1.0, DefaultEqAdjust)
	b := DeriveMaterial(info, pixfmt.YUV420P, 1.0, DefaultEqAdjust)
	if a.Type != b.Type {
		t.Fatal("material_type is not stable across two derivations of the same shape")
	}

	rgbInfo := planarInfo()
	rgbInfo.PlaneCount = 1
	c := DeriveMaterial(rgbInfo, pixfmt.RGB24, 1.0, DefaultEqAdjust)
	if a.Type == c.Type {
		t.Fatal("material_type did not distinguish YUV planar from RGB")
	}
}

func TestRangeExpansionMatrixIdentityWhenFullRange(t *testing.T) {
	m := rangeExpansionMatrix(true)
	if m != Identity4() {
		t.Fatalf("rangeExpansionMatrix(true) = %v, want identity", m)
	}
}

func TestRangeExpansionMatrixScalesStudioRange(t *testing.T) {
	m := rangeExpansionMatrix(false)
	if m[0] <= 1.0 {
		t.Fatalf("luma scale %v should expand studio range above 1.0", m[0])
	}
}

func TestYUVToRGBMatrixVariesByColorSpace(t *testing.T) {
	m601 := yuvToRGBMatrix(videoformat.ColorSpaceBT601)
	m709 := yuvToRGBMatrix(videoformat.ColorSpaceBT709)
	if m601 == m709 {
		t.Fatal("BT601 and BT709 conversion matrices must differ")
	}
}

func TestDeriveTo8(t *testing.T) {
	if v := deriveTo8(8); v != (Vec2{1, 0}) {
		t.Fatalf("deriveTo8(8) = %v, want {1,0}", v)
	}
	v10 := deriveTo8(10)
	if v10[0] != 1 || v10[1] <= 0 {
		t.Fatalf("deriveTo8(10) = %v, want hi=1, lo>0", v10)
	}
}

func TestMapToTextureAppliesValidWidth(t *testing.T) {
	m := &Material{
		Target:      TextureTarget2D,
		ValidWidth:  0.5,
		TextureSize: [4][2]int32{{100, 100}},
	}
	r := m.MapToTexture(0, Rect{X: 50, Y: 0, W: 50, H: 100}, NormalizeYes)
	if r.X != 0.25 || r.W != 0.25 {
		t.Fatalf("MapToTexture = %+v, want X=0.25 W=0.25 after valid-width correction", r)
	}
}

func TestMapToTextureRectangleTargetSkipsNormalization(t *testing.T) {
	m := &Material{
		Target:      TextureTargetRectangle,
		ValidWidth:  1.0,
		TextureSize: [4][2]int32{{100, 100}},
	}
	r := m.MapToTexture(0, Rect{X: 50, Y: 0, W: 50, H: 100}, NormalizeAuto)
	if r.X != 50 || r.W != 50 {
		t.Fatalf("MapToTexture on rectangle target = %+v, want unnormalized X=50 W=50", r)
	}
}

func TestMulMat4Identity(t *testing.T) {
	id := Identity4()
	m := rangeExpansionMatrix(false)
	got := mulMat4(id, m)
	if got != m {
		t.Fatalf("Identity * m = %v, want m = %v", got, m)
	}
}
