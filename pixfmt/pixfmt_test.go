//go:build !ios && !android && (amd64 || arm64)

package pixfmt

import "testing"

func TestDescribeInvalidOutOfRange(t *testing.T) {
	d := Describe(PixelFormat(numFormats + 10))
	if d.PlaneCount != -1 {
		t.Fatalf("Describe(out-of-range) PlaneCount = %d, want -1", d.PlaneCount)
	}
	if PixelFormat(numFormats + 10).IsValid() {
		t.Fatal("out-of-range format reported valid")
	}
}

func TestYUV420PPlaneLayout(t *testing.T) {
	if got := YUV420P.PlaneCount(); got != 3 {
		t.Fatalf("YUV420P.PlaneCount() = %d, want 3", got)
	}
	if got := YUV420P.BitsPerComponent(); got != 8 {
		t.Fatalf("YUV420P.BitsPerComponent() = %d, want 8", got)
	}
	if got := YUV420P.ChromaWidth(64); got != 32 {
		t.Fatalf("YUV420P.ChromaWidth(64) = %d, want 32", got)
	}
	if got := YUV420P.ChromaHeight(64); got != 32 {
		t.Fatalf("YUV420P.ChromaHeight(64) = %d, want 32", got)
	}
	if !YUV420P.IsPlanar() {
		t.Fatal("YUV420P should report planar")
	}
	if YUV420P.IsRGB() || YUV420P.HasAlpha() {
		t.Fatal("YUV420P should not be RGB or carry alpha")
	}
}

func TestNV12SemiPlanarLayout(t *testing.T) {
	if got := NV12.PlaneCount(); got != 2 {
		t.Fatalf("NV12.PlaneCount() = %d, want 2", got)
	}
	if got := NV12.ChannelsPlane(1); got != 2 {
		t.Fatalf("NV12.ChannelsPlane(1) = %d, want 2 (interleaved U/V)", got)
	}
	if !NV12.IsPlanar() {
		t.Fatal("NV12 should report planar (semi-planar counts)")
	}
}

func TestRGB24PackedLayout(t *testing.T) {
	if got := RGB24.PlaneCount(); got != 1 {
		t.Fatalf("RGB24.PlaneCount() = %d, want 1", got)
	}
	if got := RGB24.BytesPerPixel(); got != 3 {
		t.Fatalf("RGB24.BytesPerPixel() = %d, want 3", got)
	}
	if !RGB24.IsRGB() {
		t.Fatal("RGB24 should report RGB")
	}
	if RGB24.HasAlpha() {
		t.Fatal("RGB24 should not carry alpha")
	}
}

func TestRGBA32HasAlphaAndFourBytes(t *testing.T) {
	if !RGBA32.HasAlpha() {
		t.Fatal("RGBA32 should carry alpha")
	}
	if got := RGBA32.BytesPerPixel(); got != 4 {
		t.Fatalf("RGBA32.BytesPerPixel() = %d, want 4", got)
	}
}

func TestHWAccelFormatsHaveNoPlanes(t *testing.T) {
	for _, f := range []PixelFormat{VAAPI, DXVA2VLD, D3D11VAVLD, VDPAU} {
		if got := f.PlaneCount(); got != 0 {
			t.Errorf("%s.PlaneCount() = %d, want 0", f.Name(), got)
		}
		if !f.IsHWAccelerated() {
			t.Errorf("%s should report IsHWAccelerated", f.Name())
		}
	}
}

func TestBitsPerComponentSemiPlanarAndInvalid(t *testing.T) {
	// NV12's two planes carry different channel counts at different total
	// bit widths but the same per-channel depth (8), so this is uniform...
	if got := NV12.BitsPerComponent(); got != 8 {
		t.Fatalf("NV12.BitsPerComponent() = %d, want 8", got)
	}
	// ...while an invalid format reports 0 rather than panicking.
	if got := Invalid.BitsPerComponent(); got != 0 {
		t.Fatalf("Invalid.BitsPerComponent() = %d, want 0", got)
	}
}

func TestBytesPerLineAccountsForChromaSubsampling(t *testing.T) {
	lumaStride := YUV420P.BytesPerLine(64, 0)
	chromaStride := YUV420P.BytesPerLine(64, 1)
	if lumaStride != 64 {
		t.Fatalf("luma stride = %d, want 64", lumaStride)
	}
	if chromaStride != 32 {
		t.Fatalf("chroma stride = %d, want 32", chromaStride)
	}
}
