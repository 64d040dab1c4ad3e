//go:build !ios && !android && (amd64 || arm64)

package vaccel

import (
	"testing"

	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/platform"
)

func TestPriorityListAlwaysOffersVAAPIAndVDPAU(t *testing.T) {
	list := PriorityList()
	var sawVAAPI, sawVDPAU bool
	for _, b := range list {
		switch b.PixelFormat {
		case avutil.PixelFormatVAAPI:
			sawVAAPI = true
		case avutil.PixelFormatVDPAU:
			sawVDPAU = true
		}
	}
	if !sawVAAPI || !sawVDPAU {
		t.Fatalf("PriorityList() = %+v, missing VAAPI or VDPAU", list)
	}
}

func TestPriorityListPutsWindowsBackendsFirstOnWindows(t *testing.T) {
	list := PriorityList()
	if platform.GOOS() != "windows" {
		t.Skip("only meaningful on windows")
	}
	if list[0].PixelFormat != avutil.PixelFormatD3D11VAVLD {
		t.Fatalf("PriorityList()[0] = %+v, want d3d11va first on windows", list[0])
	}
}

func TestHWAccelContextChromaForRejectsMismatchedHWFormat(t *testing.T) {
	h := &hwAccelContext{hwFmt: avutil.PixelFormatVAAPI}
	if got := h.ChromaFor(avutil.PixelFormatVDPAU, avutil.PixelFormatNV12); got != 0 {
		t.Fatalf("ChromaFor with mismatched hwFmt = %#x, want 0", got)
	}
}

func TestHWAccelContextChromaForNV12(t *testing.T) {
	h := &hwAccelContext{hwFmt: avutil.PixelFormatVAAPI}
	if got := h.ChromaFor(avutil.PixelFormatVAAPI, avutil.PixelFormatNV12); got != ChromaNV12 {
		t.Fatalf("ChromaFor(VAAPI, NV12) = %#x, want ChromaNV12", got)
	}
}

func TestHWAccelContextOpenFailsWithoutDevice(t *testing.T) {
	h := &hwAccelContext{name: "test"}
	if err := h.Open(); err == nil {
		t.Fatal("Open() with a nil device should fail")
	}
}

func TestHWAccelContextCloseIsNilSafe(t *testing.T) {
	h := &hwAccelContext{name: "test"}
	h.Close() // must not panic when device is nil
}
