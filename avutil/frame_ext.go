//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/lucent-av/vidcore/internal/bindings"
)

// Additional AVFrame field offsets beyond the ones in avutil.go. These are
// only needed by the video decode/render path (sample_aspect_ratio, opaque,
// decode_error_flags, flags, buf[0]).
const (
	offsetSampleAspectRatio = 128 // AVRational sample_aspect_ratio (num,den) at 128
	offsetOpaque            = 344 // void *opaque (FFmpeg 6.x layout, 8-byte aligned)
	offsetDecodeErrorFlags  = 356 // int decode_error_flags
	offsetFrameFlags        = 360 // int flags (AV_FRAME_FLAG_*)
	offsetColorRange        = 364 // enum AVColorRange color_range
	offsetColorPrimaries    = 368 // enum AVColorPrimaries color_primaries
	offsetColorTRC          = 372 // enum AVColorTransferCharacteristic color_trc
	offsetColorSpace        = 376 // enum AVColorSpace colorspace
	offsetChromaLocation    = 380 // enum AVChromaLocation chroma_location
	offsetFrameBuf          = 392 // AVBufferRef *buf[8]
)

// Frame flag bits (AV_FRAME_FLAG_*), mirrored from frame.h.
const (
	FrameFlagCorrupt    int32 = 1 << 0
	FrameFlagKey        int32 = 1 << 1
	FrameFlagDiscard    int32 = 1 << 2
	FrameFlagInterlaced int32 = 1 << 3
)

// GetFrameSampleAspectRatio returns the frame's SAR. A zero SAR (0/0 or N/0)
// means "unknown"; callers normalize that to 1/1 per the spec.
func GetFrameSampleAspectRatio(frame Frame) Rational {
	if frame == nil {
		return Rational{}
	}
	num := *(*int32)(unsafe.Pointer(uintptr(frame) + offsetSampleAspectRatio))
	den := *(*int32)(unsafe.Pointer(uintptr(frame) + offsetSampleAspectRatio + 4))
	return Rational{Num: num, Den: den}
}

// SetFrameSampleAspectRatio sets the frame's SAR.
func SetFrameSampleAspectRatio(frame Frame, r Rational) {
	if frame == nil {
		return
	}
	*(*int32)(unsafe.Pointer(uintptr(frame) + offsetSampleAspectRatio)) = r.Num
	*(*int32)(unsafe.Pointer(uintptr(frame) + offsetSampleAspectRatio + 4)) = r.Den
}

// GetFrameOpaque returns the frame's opaque pointer.
func GetFrameOpaque(frame Frame) unsafe.Pointer {
	if frame == nil {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetOpaque))
}

// SetFrameOpaque sets the frame's opaque pointer. The decoder stamps this
// with a pointer to the frame's VideoFormatInfo after a successful clone;
// get_buffer2 zeroes it on every fresh allocation (the two lifetimes must
// never be confused, see the spec's open question on this field).
func SetFrameOpaque(frame Frame, ptr unsafe.Pointer) {
	if frame == nil {
		return
	}
	*(*unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetOpaque)) = ptr
}

// GetFrameDecodeErrorFlags returns FF_DECODE_ERROR_* bits set by the codec
// when it had to conceal or guess part of the frame.
func GetFrameDecodeErrorFlags(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetDecodeErrorFlags))
}

// GetFrameFlags returns the AV_FRAME_FLAG_* bitset.
func GetFrameFlags(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetFrameFlags))
}

// GetFrameColorRange, GetFrameColorSpace, GetFrameColorTRC,
// GetFrameColorPrimaries and GetFrameChromaLocation expose the raw codec
// enums the videoformat package maps into its own internal enums.
func GetFrameColorRange(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetColorRange))
}

func GetFrameColorSpace(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetColorSpace))
}

func GetFrameColorTRC(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetColorTRC))
}

func GetFrameColorPrimaries(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetColorPrimaries))
}

func GetFrameChromaLocation(frame Frame) int32 {
	if frame == nil {
		return 0
	}
	return *(*int32)(unsafe.Pointer(uintptr(frame) + offsetChromaLocation))
}

// offsetFrameData and offsetFrameLinesize are AVFrame's first two fields:
// uint8_t *data[8] at offset 0, int linesize[8] immediately after.
const (
	offsetFrameData     = 0
	offsetFrameLinesize = 8 * 8
)

// offsetFrameExtendedData, offsetFrameExtendedBuf and
// offsetFrameNbExtendedBuf round out the plane/buffer-reference fields
// WrapBuffer needs: extended_data sits right after linesize[8], and
// extended_buf/nb_extended_buf immediately follow buf[8] (8 pointers,
// 64 bytes, starting at offsetFrameBuf).
const (
	offsetFrameExtendedData  = offsetFrameLinesize + 8*4 // uint8_t **extended_data
	offsetFrameExtendedBuf   = offsetFrameBuf + 8*8       // AVBufferRef **extended_buf
	offsetFrameNbExtendedBuf = offsetFrameExtendedBuf + 8 // int nb_extended_buf
)

// ZeroFrameBuffers clears a frame's data/linesize/buf arrays, mirroring
// the engine's own pre-get_buffer2 reset (spec §4.4 "get_buffer2: zero
// every data/linesize/buf entry").
func ZeroFrameBuffers(frame Frame) {
	if frame == nil {
		return
	}
	for i := 0; i < 8; i++ {
		framePlaneData(frame)[i] = nil
		framePlaneLinesize(frame)[i] = 0
		framePlaneBuf(frame)[i] = nil
	}
}

func framePlaneData(frame Frame) *[8]unsafe.Pointer {
	return (*[8]unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetFrameData))
}

func framePlaneLinesize(frame Frame) *[8]int32 {
	return (*[8]int32)(unsafe.Pointer(uintptr(frame) + offsetFrameLinesize))
}

func framePlaneBuf(frame Frame) *[8]unsafe.Pointer {
	return (*[8]unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetFrameBuf))
}

// SetFramePlane sets data[plane]/linesize[plane] directly, for callers
// (like WrapBuffer) that point a frame's planes at externally owned
// memory instead of going through the allocator.
func SetFramePlane(frame Frame, plane int, data unsafe.Pointer, linesize int32) {
	if frame == nil || plane < 0 || plane >= 8 {
		return
	}
	framePlaneData(frame)[plane] = data
	framePlaneLinesize(frame)[plane] = linesize
}

// SetFrameExtendedData points extended_data at the frame's own data[]
// array, the layout every frame with <= 8 planes uses.
func SetFrameExtendedData(frame Frame) {
	if frame == nil {
		return
	}
	*(*unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetFrameExtendedData)) = unsafe.Pointer(uintptr(frame) + offsetFrameData)
}

// SetFrameBuf0 installs bufRef as buf[0] and clears the remaining buf
// slots and the extended_buf bookkeeping, mirroring what av_frame_alloc
// sets up for a single-AVBufferRef frame.
func SetFrameBuf0(frame Frame, bufRef unsafe.Pointer) {
	if frame == nil {
		return
	}
	buf := framePlaneBuf(frame)
	for i := 0; i < 8; i++ {
		buf[i] = nil
	}
	buf[0] = bufRef
	*(*unsafe.Pointer)(unsafe.Pointer(uintptr(frame) + offsetFrameExtendedBuf)) = nil
	*(*int32)(unsafe.Pointer(uintptr(frame) + offsetFrameNbExtendedBuf)) = 0
}

// Extra function bindings for the video path.
var (
	avFrameClone         func(src unsafe.Pointer) unsafe.Pointer
	avMallocz            func(size uintptr) unsafe.Pointer
	avBufferCreate       func(data unsafe.Pointer, size uintptr, free uintptr, opaque unsafe.Pointer, flags int32) unsafe.Pointer
	avImageFillLinesizes func(linesizes *int32, pixFmt int32, width int32) int32
	avOptSetInt          func(obj unsafe.Pointer, name string, val int64, searchFlags int32) int32
	avOptSet             func(obj unsafe.Pointer, name string, val string, searchFlags int32) int32

	frameExtRegistered bool
)

func init() {
	registerFrameExtBindings()
}

func registerFrameExtBindings() {
	if frameExtRegistered {
		return
	}
	if err := bindings.Load(); err != nil {
		return
	}
	lib := bindings.LibAVUtil()
	if lib == 0 {
		return
	}
	registerOptionalFunc(&avFrameClone, lib, "av_frame_clone")
	registerOptionalFunc(&avMallocz, lib, "av_mallocz")
	registerOptionalFunc(&avBufferCreate, lib, "av_buffer_create")
	registerOptionalFunc(&avImageFillLinesizes, lib, "av_image_fill_linesizes")
	registerOptionalFunc(&avOptSetInt, lib, "av_opt_set_int")
	registerOptionalFunc(&avOptSet, lib, "av_opt_set")
	frameExtRegistered = true
}

func registerOptionalFunc(fptr any, handle uintptr, name string) {
	defer func() { _ = recover() }()
	purego.RegisterLibFunc(fptr, handle, name)
}

// FrameClone returns a new frame referencing the same buffers as src,
// equivalent to av_frame_clone. The decoder's output slot holds one such
// clone per published frame (see the spec's ref-counted frame model).
func FrameClone(src Frame) Frame {
	if src == nil || avFrameClone == nil {
		return nil
	}
	return avFrameClone(src)
}

// Mallocz allocates zeroed memory using FFmpeg's allocator.
func Mallocz(size uintptr) unsafe.Pointer {
	if avMallocz == nil {
		return nil
	}
	return avMallocz(size)
}

// BufferCreate wraps an existing buffer in an AVBufferRef without copying;
// free is a purego callback invoked when the last reference drops.
func BufferCreate(data unsafe.Pointer, size int, free uintptr, opaque unsafe.Pointer, flags int32) unsafe.Pointer {
	if avBufferCreate == nil {
		return nil
	}
	return avBufferCreate(data, uintptr(size), free, opaque, flags)
}

// FillLinesizes computes plane linesizes for width at pixFmt (native
// AVPixelFormat tag), mirroring av_image_fill_linesizes. Used by the
// videoformat builder's software alignment loop (spec §4.2 step 5).
func FillLinesizes(linesizes *[4]int32, pixFmt int32, width int32) error {
	if avImageFillLinesizes == nil {
		return bindings.ErrNotLoaded
	}
	ret := avImageFillLinesizes(&linesizes[0], pixFmt, width)
	if ret < 0 {
		return NewError(ret, "av_image_fill_linesizes")
	}
	return nil
}

// OptSetInt sets an integer AVOption on obj (an AVCodecContext or similar),
// mirroring av_opt_set_int. SimpleDecoder uses it to set
// "refcounted_frames" = 1 during setup.
func OptSetInt(obj unsafe.Pointer, name string, val int64) error {
	if avOptSetInt == nil {
		return bindings.ErrNotLoaded
	}
	ret := avOptSetInt(obj, name, val, 0)
	if ret < 0 {
		return NewError(ret, "av_opt_set_int")
	}
	return nil
}

// OptSet sets a string AVOption on obj (an AVCodecContext or similar),
// mirroring av_opt_set.
func OptSet(obj unsafe.Pointer, name string, val string) error {
	if avOptSet == nil {
		return bindings.ErrNotLoaded
	}
	ret := avOptSet(obj, name, val, 0)
	if ret < 0 {
		return NewError(ret, "av_opt_set")
	}
	return nil
}
