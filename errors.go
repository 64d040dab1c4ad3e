//go:build !ios && !android && (amd64 || arm64)

package vidcore

import (
	"errors"

	"github.com/lucent-av/vidcore/avutil"
)

// FFmpegError is an error from FFmpeg operations.
// It contains the raw FFmpeg error code and a human-readable message.
type FFmpegError = avutil.Error

// Common errors
var (
	// ErrOutOfMemory indicates memory allocation failed.
	ErrOutOfMemory = errors.New("vidcore: out of memory")

	// ErrNotLoaded indicates FFmpeg libraries are not loaded.
	ErrNotLoaded = errors.New("vidcore: FFmpeg libraries not loaded")

	// ErrClosed indicates the resource has been closed.
	ErrClosed = errors.New("vidcore: resource is closed")

	// ErrDecoderNotOpened indicates the decoder has not been opened.
	ErrDecoderNotOpened = errors.New("vidcore: decoder not opened")

	// ErrDecoderInitFailed covers codec lookup, context allocation, and
	// avcodec_open2 failures during SimpleDecoder setup.
	ErrDecoderInitFailed = errors.New("vidcore: decoder init failed")

	// ErrFormatNegotiationFailed is returned when a VideoFormatInfo cannot be
	// built for the negotiated pixel format (e.g. an invalid display size).
	ErrFormatNegotiationFailed = errors.New("vidcore: format negotiation failed")

	// ErrInvalidDisplaySize means the coded or visible dimensions are outside
	// (0, 8192] or the coded size is smaller than the visible size.
	ErrInvalidDisplaySize = errors.New("vidcore: invalid display size")

	// ErrHWAccelUnavailable means every hardware candidate was refused; the
	// caller already fell back to software decode, this is informational.
	ErrHWAccelUnavailable = errors.New("vidcore: hardware acceleration unavailable")

	// ErrFrameDropped means a decoded frame carried decode-error or special
	// flags and was not published to the output slot.
	ErrFrameDropped = errors.New("vidcore: frame dropped")

	// ErrShaderCompileFailed means GLSL compilation or program linking failed;
	// the associated material stays dirty and rendering must emit a blank frame.
	ErrShaderCompileFailed = errors.New("vidcore: shader compile failed")
)

// Error code constants re-exported from avutil
const (
	AVERROR_EOF               = avutil.AVERROR_EOF
	AVERROR_EAGAIN            = avutil.AVERROR_EAGAIN
	AVERROR_EINVAL            = avutil.AVERROR_EINVAL
	AVERROR_ENOMEM            = avutil.AVERROR_ENOMEM
	AVERROR_DECODER_NOT_FOUND = avutil.AVERROR_DECODER_NOT_FOUND
	AVERROR_ENCODER_NOT_FOUND = avutil.AVERROR_ENCODER_NOT_FOUND
)

// NewError creates an FFmpegError from an error code.
// Returns nil if code >= 0.
func NewError(code int32, op string) error {
	return avutil.NewError(code, op)
}

// ErrorCode returns the FFmpeg error code from an error, or 0 if not an FFmpeg error.
func ErrorCode(err error) int32 {
	return avutil.Code(err)
}
