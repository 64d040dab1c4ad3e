//go:build !ios && !android && (amd64 || arm64)

package avcodec

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/bindings"
)

// Additional AVCodecContext field offsets needed by the decode negotiation
// path (coded dimensions, profile/level for the get_format reuse check,
// threading fields, the opaque back-pointer, the get_format/get_buffer2/
// draw_horiz_band callback slots, extradata, and the color metadata fields
// VideoFormatInfo derives from).
const (
	offsetCtxCodedWidth  = 124 // int coded_width
	offsetCtxCodedHeight = 128 // int coded_height
	offsetCtxProfile     = 140 // int profile
	offsetCtxLevel       = 144 // int level

	offsetCtxExtraData     = 168 // uint8_t *extradata
	offsetCtxExtraDataSize = 176 // int extradata_size

	offsetCtxThreadCount         = 756 // int thread_count
	offsetCtxThreadType          = 760 // int thread_type
	offsetCtxActiveThreadType    = 764 // int active_thread_type (read-only)
	offsetCtxThreadSafeCallbacks = 768 // int thread_safe_callbacks (deprecated but still honored)

	offsetCtxOpaque         = 776 // void *opaque
	offsetCtxGetFormat      = 784 // enum AVPixelFormat (*get_format)(...)
	offsetCtxGetBuffer2     = 792 // int (*get_buffer2)(...)
	offsetCtxDrawHorizBand  = 800 // void (*draw_horiz_band)(...)

	offsetCtxColorRange           = 808 // enum AVColorRange
	offsetCtxColorPrimaries       = 812 // enum AVColorPrimaries
	offsetCtxColorTRC             = 816 // enum AVColorTransferCharacteristic
	offsetCtxColorSpace           = 820 // enum AVColorSpace
	offsetCtxChromaSampleLocation = 824 // enum AVChromaLocation
	offsetCtxSampleAspectRatio    = 828 // AVRational sample_aspect_ratio
)

func GetCtxCodedWidth(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxCodedWidth))
}

func GetCtxCodedHeight(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxCodedHeight))
}

func GetCtxProfile(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxProfile))
}

func GetCtxLevel(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxLevel))
}

// SetCtxExtradata copies data into an engine-owned buffer padded by
// AV_INPUT_BUFFER_PADDING_SIZE (64 bytes) and installs it as
// ctx->extradata/extradata_size, as SimpleDecoder.open does.
func SetCtxExtradata(ctx Context, data []byte) error {
	if ctx == nil {
		return nil
	}
	const padding = 64
	size := len(data)
	buf := avutil.Mallocz(uintptr(size + padding))
	if buf == nil && size > 0 {
		return bindings.ErrNotLoaded
	}
	if size > 0 {
		dst := unsafe.Slice((*byte)(buf), size)
		copy(dst, data)
	}
	*(*unsafe.Pointer)(unsafe.Pointer(uintptr(ctx) + offsetCtxExtraData)) = buf
	*(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxExtraDataSize)) = int32(size)
	return nil
}

func SetCtxThreadCount(ctx Context, n int32) {
	if ctx == nil {
		return
	}
	*(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxThreadCount)) = n
}

func SetCtxThreadType(ctx Context, t int32) {
	if ctx == nil {
		return
	}
	*(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxThreadType)) = t
}

func GetCtxActiveThreadType(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxActiveThreadType))
}

func SetCtxThreadSafeCallbacks(ctx Context, v bool) {
	if ctx == nil {
		return
	}
	var iv int32
	if v {
		iv = 1
	}
	*(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxThreadSafeCallbacks)) = iv
}

// SetCtxOpaque stores a raw handle (see internal/handles) in ctx->opaque so
// the get_format/get_buffer2 trampolines can recover the owning *Decoder.
func SetCtxOpaque(ctx Context, handle uintptr) {
	if ctx == nil {
		return
	}
	*(*uintptr)(unsafe.Pointer(uintptr(ctx) + offsetCtxOpaque)) = handle
}

func GetCtxOpaque(ctx Context) uintptr {
	if ctx == nil {
		return 0
	}
	return *(*uintptr)(unsafe.Pointer(uintptr(ctx) + offsetCtxOpaque))
}

// SetCtxGetFormat installs a purego callback (from purego.NewCallback) as
// ctx->get_format. Signature: enum AVPixelFormat get_format(AVCodecContext *s,
// const enum AVPixelFormat *fmt).
func SetCtxGetFormat(ctx Context, cb uintptr) {
	if ctx == nil {
		return
	}
	*(*uintptr)(unsafe.Pointer(uintptr(ctx) + offsetCtxGetFormat)) = cb
}

// SetCtxGetBuffer2 installs a purego callback as ctx->get_buffer2.
// Signature: int get_buffer2(AVCodecContext *s, AVFrame *frame, int flags).
func SetCtxGetBuffer2(ctx Context, cb uintptr) {
	if ctx == nil {
		return
	}
	*(*uintptr)(unsafe.Pointer(uintptr(ctx) + offsetCtxGetBuffer2)) = cb
}

// ClearCtxDrawHorizBand disables the horizontal-band draw callback, which
// the codec engine refuses to combine with certain HW-accel paths.
func ClearCtxDrawHorizBand(ctx Context) {
	if ctx == nil {
		return
	}
	*(*uintptr)(unsafe.Pointer(uintptr(ctx) + offsetCtxDrawHorizBand)) = 0
}

func GetCtxColorRange(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxColorRange))
}

func GetCtxColorPrimaries(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxColorPrimaries))
}

func GetCtxColorTRC(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxColorTRC))
}

func GetCtxColorSpace(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxColorSpace))
}

func GetCtxChromaSampleLocation(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxChromaSampleLocation))
}

func GetCtxSampleAspectRatio(ctx Context) avutil.Rational {
	if ctx == nil {
		return avutil.Rational{}
	}
	num := *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxSampleAspectRatio))
	den := *(*int32)(unsafe.Pointer(uintptr(ctx) + offsetCtxSampleAspectRatio + 4))
	return avutil.Rational{Num: num, Den: den}
}

// Function bindings for default callback delegation and dimension alignment.
var (
	avcodecDefaultGetFormat  func(ctx uintptr, fmt *int32) int32
	avcodecDefaultGetBuffer2 func(ctx, frame uintptr, flags int32) int32
	avcodecAlignDimensions2  func(ctx uintptr, width, height *int32, linesizeAlign *int32)

	contextExtRegistered bool
)

func init() {
	registerContextExtBindings()
}

func registerContextExtBindings() {
	if contextExtRegistered {
		return
	}
	if err := bindings.Load(); err != nil {
		return
	}
	lib := bindings.LibAVCodec()
	if lib == 0 {
		return
	}
	registerOptionalLibFunc(&avcodecDefaultGetFormat, lib, "avcodec_default_get_format")
	registerOptionalLibFunc(&avcodecDefaultGetBuffer2, lib, "avcodec_default_get_buffer2")
	registerOptionalLibFunc(&avcodecAlignDimensions2, lib, "avcodec_align_dimensions2")
	contextExtRegistered = true
}

// DefaultGetFormat delegates to the engine's default format-selection
// policy, used as the SW fallback's "recorded default" (spec §4.4 step 1).
func DefaultGetFormat(ctx Context, candidates []int32) int32 {
	if avcodecDefaultGetFormat == nil || len(candidates) == 0 {
		return -1
	}
	return avcodecDefaultGetFormat(uintptr(ctx), &candidates[0])
}

// DefaultGetBuffer2 delegates to the engine's default buffer allocator.
func DefaultGetBuffer2(ctx Context, frame avutil.Frame, flags int32) int32 {
	if avcodecDefaultGetBuffer2 == nil {
		return -1
	}
	return avcodecDefaultGetBuffer2(uintptr(ctx), uintptr(frame), flags)
}

// AlignDimensions2 grows (width, height) to the codec's required alignment,
// returning the per-plane linesize alignment used by the software
// VideoFormatInfo builder's linesize-growth loop (spec §4.2 step 5).
func AlignDimensions2(ctx Context, width, height *int32) [4]int32 {
	var linesizeAlign [4]int32
	if avcodecAlignDimensions2 == nil {
		return linesizeAlign
	}
	avcodecAlignDimensions2(uintptr(ctx), width, height, &linesizeAlign[0])
	return linesizeAlign
}

var _ = purego.RegisterLibFunc
