//go:build !ios && !android && (amd64 || arm64)

// Package vaccel defines the hardware video-acceleration capability the
// decoder negotiates against in get_format, plus a set of thin backends
// (VAAPI, VDPAU, D3D11VA, DXVA2) built on the codec engine's generic
// hwdevice-context FFI. The platform driver details behind each backend
// (surface pools, zero-copy GPU interop) are out of scope; these backends
// establish a device context and delegate buffer allocation to the codec
// engine's default path, which is sufficient to exercise the negotiation
// state machine in decoder.
package vaccel

import (
	"fmt"
	"unsafe"

	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/platform"
)

// VideoAcceleration is the capability contract SimpleDecoder negotiates
// during get_format and delegates to during get_buffer2.
type VideoAcceleration interface {
	// ChromaFor maps a hw/sw format pair to a FourCC chroma tag, or 0 if
	// this backend can't serve that pair.
	ChromaFor(hwFmt, swFmt avutil.PixelFormat) uint32
	// Open finishes setup after Create succeeds.
	Open() error
	// GetFrame populates frame's buffers, mirroring the engine's default
	// get_buffer2 but sourced from this backend's surface pool.
	GetFrame(frame avutil.Frame) int32
	// ExtraInfoForRender returns an optional render-side handle (e.g. a
	// shared GPU surface), or nil.
	ExtraInfoForRender() unsafe.Pointer
	// Close releases all GPU resources. Idempotent.
	Close()
}

// FourCC chroma tags surfaced to VideoFormatInfo by the stub backends.
const (
	ChromaNV12 uint32 = 0x3231564e // "NV12"
	ChromaP010 uint32 = 0x30313050 // "P010"
)

// Backend names one HW format this module can attempt to negotiate, plus
// its constructor.
type Backend struct {
	Name        string
	PixelFormat avutil.PixelFormat
	Create      func(ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error)
}

// PriorityList returns the HW format candidates to try, in preference
// order, filtered by platform (spec §4.3): Windows gets D3D11VA then
// DXVA2 ahead of the OS-agnostic VAAPI/VDPAU pair; every other platform
// only offers VAAPI/VDPAU.
func PriorityList() []Backend {
	common := []Backend{
		{Name: "vaapi", PixelFormat: avutil.PixelFormatVAAPI, Create: newVAAPI},
		{Name: "vdpau", PixelFormat: avutil.PixelFormatVDPAU, Create: newVDPAU},
	}
	if platform.GOOS() == "windows" {
		return append([]Backend{
			{Name: "d3d11va", PixelFormat: avutil.PixelFormatD3D11VAVLD, Create: newD3D11VA},
			{Name: "dxva2", PixelFormat: avutil.PixelFormatDXVA2VLD, Create: newDXVA2},
		}, common...)
	}
	return common
}

// hwAccelContext is the shared implementation behind every backend below:
// an engine hwdevice context plus delegation to the engine's default
// buffer allocator. Real surface-pool management is backend-specific and
// lives outside this module's scope.
type hwAccelContext struct {
	name   string
	ctx    avcodec.Context
	hwFmt  avutil.PixelFormat
	device avutil.HWDeviceContext
}

func createHWAccelContext(name string, deviceType avutil.HWDeviceType, ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error) {
	device, err := avutil.HWDeviceCtxCreate(deviceType, "")
	if err != nil {
		return nil, fmt.Errorf("vaccel: %s device create: %w", name, err)
	}
	return &hwAccelContext{name: name, ctx: ctx, hwFmt: hwFmt, device: device}, nil
}

func newVAAPI(ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error) {
	return createHWAccelContext("vaapi", avutil.HWDeviceTypeVAAPI, ctx, hwFmt)
}

func newVDPAU(ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error) {
	return createHWAccelContext("vdpau", avutil.HWDeviceTypeVDPAU, ctx, hwFmt)
}

func newD3D11VA(ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error) {
	return createHWAccelContext("d3d11va", avutil.HWDeviceTypeD3D11VA, ctx, hwFmt)
}

func newDXVA2(ctx avcodec.Context, hwFmt avutil.PixelFormat) (VideoAcceleration, error) {
	return createHWAccelContext("dxva2", avutil.HWDeviceTypeDXVA2, ctx, hwFmt)
}

func (h *hwAccelContext) ChromaFor(hwFmt, swFmt avutil.PixelFormat) uint32 {
	if hwFmt != h.hwFmt {
		return 0
	}
	switch swFmt {
	case avutil.PixelFormatNV12, avutil.PixelFormatNV21:
		return ChromaNV12
	case avutil.PixelFormatYUV420P10LE, avutil.PixelFormatYUV420P10BE:
		return ChromaP010
	default:
		return 0
	}
}

func (h *hwAccelContext) Open() error {
	if h.device == nil {
		return fmt.Errorf("vaccel: %s not created", h.name)
	}
	return nil
}

func (h *hwAccelContext) GetFrame(frame avutil.Frame) int32 {
	return avcodec.DefaultGetBuffer2(h.ctx, frame, 0)
}

func (h *hwAccelContext) ExtraInfoForRender() unsafe.Pointer {
	return h.device
}

func (h *hwAccelContext) Close() {
	if h.device == nil {
		return
	}
	avutil.HWDeviceContextUnref(&h.device)
}
