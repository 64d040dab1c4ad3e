//go:build !ios && !android && (amd64 || arm64)

package videoformat

import (
	"testing"

	"github.com/lucent-av/vidcore/pixfmt"
)

func TestChromaForStripsEndiannessSuffix(t *testing.T) {
	if got := ChromaFor(pixfmt.YUV420P10LE); got != "yuv420p10" {
		t.Fatalf("ChromaFor(YUV420P10LE) = %q, want %q", got, "yuv420p10")
	}
	if got := ChromaFor(pixfmt.YUV420P); got != "yuv420p" {
		t.Fatalf("ChromaFor(YUV420P) = %q, want %q", got, "yuv420p")
	}
}

func TestMapColorRangeUnspecifiedDefaultsOnPixelFamily(t *testing.T) {
	if !mapColorRange(nativeRangeUnspecified, false) {
		t.Fatal("unspecified range on an RGB family should default to full range")
	}
	if mapColorRange(nativeRangeUnspecified, true) {
		t.Fatal("unspecified range on a YUV family should default to limited range")
	}
}

func TestMapColorRangeExplicit(t *testing.T) {
	if !mapColorRange(nativeRangeJPEG, true) {
		t.Fatal("JPEG range should map to full range regardless of pixel family")
	}
	if mapColorRange(nativeRangeMPEG, false) {
		t.Fatal("MPEG range should map to limited range regardless of pixel family")
	}
}

func TestMapColorSpaceFamilies(t *testing.T) {
	cases := map[int32]ColorSpace{
		nativeSpaceBT709:     ColorSpaceBT709,
		nativeSpaceSMPTE170M: ColorSpaceBT601,
		nativeSpaceBT470BG:   ColorSpaceBT601,
		nativeSpaceBT2020NCL: ColorSpaceBT2020,
		nativeSpaceBT2020CL:  ColorSpaceBT2020,
		99:                   ColorSpaceUnspecified,
	}
	for native, want := range cases {
		if got := mapColorSpace(native); got != want {
			t.Errorf("mapColorSpace(%d) = %v, want %v", native, got, want)
		}
	}
}

func TestMapChromaLocation(t *testing.T) {
	if got := mapChromaLocation(nativeChromaLocTopLeft); got != ChromaLocationTopLeft {
		t.Fatalf("mapChromaLocation(topleft) = %v, want ChromaLocationTopLeft", got)
	}
	if got := mapChromaLocation(99); got != ChromaLocationUnspecified {
		t.Fatalf("mapChromaLocation(unknown) = %v, want ChromaLocationUnspecified", got)
	}
}

func TestFourCCStringRoundTrips(t *testing.T) {
	var tag uint32 = uint32('N') | uint32('V')<<8 | uint32('1')<<16 | uint32('2')<<24
	if got := fourCCString(tag); got != "NV12" {
		t.Fatalf("fourCCString = %q, want %q", got, "NV12")
	}
	if got := fourCCString(0); got != "" {
		t.Fatalf("fourCCString(0) = %q, want empty", got)
	}
}
