//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"

	"github.com/lucent-av/vidcore/internal/bindings"
)

// HWDeviceType identifies a hardware acceleration backend (av_hwdevice_type).
type HWDeviceType int32

// Hardware device type constants, matching AVHWDeviceType.
const (
	HWDeviceTypeNone         HWDeviceType = 0
	HWDeviceTypeVDPAU        HWDeviceType = 1
	HWDeviceTypeCUDA         HWDeviceType = 2
	HWDeviceTypeVAAPI        HWDeviceType = 3
	HWDeviceTypeDXVA2        HWDeviceType = 4
	HWDeviceTypeQSV          HWDeviceType = 5
	HWDeviceTypeVideoToolbox HWDeviceType = 6
	HWDeviceTypeD3D11VA      HWDeviceType = 7
	HWDeviceTypeDRM          HWDeviceType = 8
	HWDeviceTypeOpenCL       HWDeviceType = 9
	HWDeviceTypeMediaCodec   HWDeviceType = 10
	HWDeviceTypeVulkan       HWDeviceType = 11
)

var hwDeviceTypeNames = map[HWDeviceType]string{
	HWDeviceTypeVDPAU:        "vdpau",
	HWDeviceTypeCUDA:         "cuda",
	HWDeviceTypeVAAPI:        "vaapi",
	HWDeviceTypeDXVA2:        "dxva2",
	HWDeviceTypeQSV:          "qsv",
	HWDeviceTypeVideoToolbox: "videotoolbox",
	HWDeviceTypeD3D11VA:      "d3d11va",
	HWDeviceTypeDRM:          "drm",
	HWDeviceTypeOpenCL:       "opencl",
	HWDeviceTypeMediaCodec:   "mediacodec",
	HWDeviceTypeVulkan:       "vulkan",
}

// String returns the FFmpeg name for the device type, or "" if unknown.
func (t HWDeviceType) String() string {
	return hwDeviceTypeNames[t]
}

// HWDeviceFindTypeByName maps a device type name to its HWDeviceType.
// Returns HWDeviceTypeNone if the name is not recognized.
func HWDeviceFindTypeByName(name string) HWDeviceType {
	for t, n := range hwDeviceTypeNames {
		if n == name {
			return t
		}
	}
	return HWDeviceTypeNone
}

// HWDeviceContext is an opaque AVBufferRef wrapping an AVHWDeviceContext.
type HWDeviceContext = unsafe.Pointer

// HWFramesContext is an opaque AVBufferRef wrapping an AVHWFramesContext.
type HWFramesContext = unsafe.Pointer

var (
	avHWDeviceCtxCreate func(out *unsafe.Pointer, deviceType int32, device string, opts unsafe.Pointer, flags int32) int32

	hwContextRegistered bool
)

func init() {
	registerHWContextBindings()
}

func registerHWContextBindings() {
	if hwContextRegistered {
		return
	}
	if err := bindings.Load(); err != nil {
		return
	}
	lib := bindings.LibAVUtil()
	if lib == 0 {
		return
	}
	registerOptionalFunc(&avHWDeviceCtxCreate, lib, "av_hwdevice_ctx_create")
	hwContextRegistered = true
}

// HWDeviceCtxCreate creates a hardware device context of the given type,
// mirroring av_hwdevice_ctx_create. device is an optional device path
// ("" selects the default device for that backend).
func HWDeviceCtxCreate(deviceType HWDeviceType, device string) (HWDeviceContext, error) {
	if avHWDeviceCtxCreate == nil {
		return nil, bindings.ErrNotLoaded
	}
	var ref unsafe.Pointer
	ret := avHWDeviceCtxCreate(&ref, int32(deviceType), device, nil, 0)
	if ret < 0 {
		return nil, NewError(ret, "av_hwdevice_ctx_create")
	}
	return ref, nil
}

// HWDeviceContextUnref releases a reference to a hardware device context.
func HWDeviceContextUnref(ctx *HWDeviceContext) {
	if ctx == nil || *ctx == nil {
		return
	}
	// AVBufferRef frees are routed through av_buffer_unref, which bufferUnref
	// binds lazily on first use.
	bufferUnref((*unsafe.Pointer)(ctx))
	*ctx = nil
}

var avBufferUnref func(buf *unsafe.Pointer)

func bufferUnref(buf *unsafe.Pointer) {
	if avBufferUnref == nil {
		lib := bindings.LibAVUtil()
		if lib == 0 {
			return
		}
		registerOptionalFunc(&avBufferUnref, lib, "av_buffer_unref")
		if avBufferUnref == nil {
			return
		}
	}
	avBufferUnref(buf)
}

var avBufferRef func(buf unsafe.Pointer) unsafe.Pointer

// NewBufferRef returns a new reference to buf (av_buffer_ref), incrementing
// its refcount. Used when storing a borrowed AVBufferRef (e.g. a hwdevice
// context) onto a codec context the caller doesn't otherwise own.
func NewBufferRef(buf unsafe.Pointer) unsafe.Pointer {
	if buf == nil {
		return nil
	}
	if avBufferRef == nil {
		lib := bindings.LibAVUtil()
		if lib == 0 {
			return nil
		}
		registerOptionalFunc(&avBufferRef, lib, "av_buffer_ref")
		if avBufferRef == nil {
			return nil
		}
	}
	return avBufferRef(buf)
}
