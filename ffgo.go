//go:build !ios && !android && (amd64 || arm64)

// Package vidcore is a hardware-accelerated video decode and render core:
// it negotiates hardware acceleration during codec format selection
// (package decoder), derives per-frame render state and generates the GLSL
// programs that present it (package render), and exposes the supporting
// pixel-format catalogue, color-metadata builder, and acceleration
// interface (packages pixfmt, videoformat, vaccel) that those two lean on.
// It uses purego rather than CGO to call into the codec engine's shared
// libraries.
package vidcore

import (
	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/decoder"
	"github.com/lucent-av/vidcore/internal/bindings"
	"github.com/lucent-av/vidcore/render"
	"github.com/lucent-av/vidcore/vaccel"
	"github.com/lucent-av/vidcore/videoformat"
)

// Init loads the codec engine's shared libraries. It is called
// automatically by decoder.Open, but can be called explicitly to surface
// load errors early. Safe to call multiple times.
func Init() error {
	return bindings.Load()
}

// IsLoaded reports whether the codec engine's libraries have been
// successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the codec engine's avutil and avcodec library versions,
// packed as the engine's own AV_VERSION_INT (major<<16 | minor<<8 | micro).
func Version() (avutilVersion, avcodecVersion uint32) {
	return bindings.AVUtilVersion(), bindings.AVCodecVersion()
}

// Re-export common types for convenience at the package root.
type (
	// Packet is an encoded packet of data.
	Packet = avcodec.Packet

	// Rational represents a rational number (fraction).
	Rational = avutil.Rational

	// PixelFormat is a codec-engine-native pixel format tag.
	PixelFormat = avutil.PixelFormat

	// CodecID identifies a codec.
	CodecID = avcodec.CodecID

	// Decoder drives the codec engine through a single video stream,
	// handling format negotiation and hardware-acceleration setup.
	Decoder = decoder.Decoder

	// VideoFormatInfo is the per-frame layout and color-metadata
	// descriptor the decoder attaches to every published frame.
	VideoFormatInfo = videoformat.VideoFormatInfo

	// VideoAcceleration is the capability contract a hardware-accel
	// backend implements.
	VideoAcceleration = vaccel.VideoAcceleration

	// Material is the per-render-surface state derived from the
	// current frame for shader binding.
	Material = render.Material

	// ShaderManager owns the cache of compiled shader programs for one
	// render surface.
	ShaderManager = render.ShaderManager
)

// Re-export common native pixel-format constants.
const (
	PixelFormatNone     = avutil.PixelFormatNone
	PixelFormatYUV420P  = avutil.PixelFormatYUV420P
	PixelFormatYUVJ420P = avutil.PixelFormatYUVJ420P
	PixelFormatRGB24    = avutil.PixelFormatRGB24
	PixelFormatBGR24    = avutil.PixelFormatBGR24
	PixelFormatRGBA     = avutil.PixelFormatRGBA
	PixelFormatBGRA     = avutil.PixelFormatBGRA
	PixelFormatNV12     = avutil.PixelFormatNV12

	CodecIDNone  = avcodec.CodecIDNone
	CodecIDH264  = avcodec.CodecIDH264
	CodecIDHEVC  = avcodec.CodecIDHEVC
	CodecIDAV1   = avcodec.CodecIDAV1
	CodecIDVP8   = avcodec.CodecIDVP8
	CodecIDVP9   = avcodec.CodecIDVP9
	CodecIDMJPEG = avcodec.CodecIDMJPEG
)

// OpenDecoder opens a SimpleDecoder for codecID, optionally enabling the
// hardware-acceleration path negotiated in get_format.
func OpenDecoder(codecID CodecID, extradata []byte, useHW bool) (*Decoder, error) {
	return decoder.Open(codecID, extradata, useHW)
}

// NewShaderManager returns an empty shader cache for one render surface.
func NewShaderManager() *ShaderManager {
	return render.NewShaderManager()
}

// FrameInfo is a lightweight summary of a frame's layout and timestamp,
// independent of the frame's pixel format family.
type FrameInfo struct {
	Width    int
	Height   int
	Format   int32
	PTS      int64
	KeyFrame bool
}

// GetFrameInfo summarizes frame's layout and timestamp.
func GetFrameInfo(frame Frame) FrameInfo {
	return FrameInfo{
		Width:    int(avutil.GetFrameWidth(frame.ptr)),
		Height:   int(avutil.GetFrameHeight(frame.ptr)),
		Format:   avutil.GetFrameFormat(frame.ptr),
		PTS:      avutil.GetFramePTS(frame.ptr),
		KeyFrame: avutil.GetFrameKeyFrame(frame.ptr) != 0,
	}
}

// NewRational creates a new rational number.
func NewRational(num, den int32) Rational {
	return avutil.NewRational(num, den)
}

// FrameAlloc allocates a new, empty frame.
func FrameAlloc() Frame {
	return Frame{ptr: avutil.FrameAlloc(), owned: true}
}

// FrameFree frees a frame and clears the pointer.
func FrameFree(frame *Frame) error {
	return frame.Free()
}

// FrameRef creates a reference to src in dst.
func FrameRef(dst, src Frame) error {
	return avutil.FrameRef(dst.ptr, src.ptr)
}

// FrameUnref unreferences a frame's buffers.
func FrameUnref(frame Frame) {
	avutil.FrameUnref(frame.ptr)
}

// IsEOF returns true if err indicates end of stream.
func IsEOF(err error) bool {
	return avutil.IsEOF(err)
}

// IsAgain returns true if err indicates the engine needs more input
// before it can produce output (EAGAIN).
func IsAgain(err error) bool {
	return avutil.IsAgain(err)
}
