//go:build !ios && !android && (amd64 || arm64)

package decoder

import "errors"

// Error kinds from spec §7. HWAccelUnavailable is recovered locally inside
// get_format (falls back to software) and is never returned by this
// package.
var (
	ErrDecoderInitFailed       = errors.New("decoder: init failed")
	ErrFormatNegotiationFailed = errors.New("decoder: format negotiation failed")
	ErrHWAccelUnavailable      = errors.New("decoder: hardware acceleration unavailable")
	ErrFrameDropped            = errors.New("decoder: frame dropped")
	ErrEndOfStream             = errors.New("decoder: end of stream")
)
