//go:build !ios && !android && (amd64 || arm64)

package vidcore

import (
	"unsafe"

	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/pixfmt"
)

// Frame is an owned or borrowed reference to an FFmpeg AVFrame.
//
// Owned frames (owned == true) were allocated by this package and must be
// released via Free or returned to a FramePool. Borrowed frames alias a
// frame owned by someone else (typically the decoder's output slot) and
// must never be freed by the holder.
type Frame struct {
	ptr   avutil.Frame
	owned bool
}

// IsNil reports whether the frame holds no underlying AVFrame.
func (f Frame) IsNil() bool {
	return f.ptr == nil
}

// Free releases the frame if it is owned. Borrowed frames are left alone.
func (f *Frame) Free() error {
	if f == nil || f.ptr == nil {
		return nil
	}
	if !f.owned {
		f.ptr = nil
		return nil
	}
	avutil.FrameFree(&f.ptr)
	f.owned = false
	return nil
}

// FrameWrapper provides a high-level, video-oriented view over an AVFrame.
type FrameWrapper struct {
	frame Frame
}

// WrapFrame creates a FrameWrapper from a raw Frame.
func WrapFrame(frame Frame) *FrameWrapper {
	if frame.IsNil() {
		return nil
	}
	return &FrameWrapper{frame: frame}
}

// Raw returns the underlying raw FFmpeg frame.
func (f *FrameWrapper) Raw() Frame {
	return f.frame
}

// PTS returns the presentation timestamp of the frame.
func (f *FrameWrapper) PTS() int64 {
	if f == nil || f.frame.IsNil() {
		return avutil.NoPTSValue
	}
	return avutil.GetFramePTS(f.frame.ptr)
}

// Width returns the coded frame width.
func (f *FrameWrapper) Width() int {
	if f == nil || f.frame.IsNil() {
		return 0
	}
	return int(avutil.GetFrameWidth(f.frame.ptr))
}

// Height returns the coded frame height.
func (f *FrameWrapper) Height() int {
	if f == nil || f.frame.IsNil() {
		return 0
	}
	return int(avutil.GetFrameHeight(f.frame.ptr))
}

// Format returns the raw pixel format tag.
func (f *FrameWrapper) Format() int32 {
	if f == nil || f.frame.IsNil() {
		return -1
	}
	return avutil.GetFrameFormat(f.frame.ptr)
}

// PixelFormat returns the pixel format for this frame.
func (f *FrameWrapper) PixelFormat() pixfmt.PixelFormat {
	return pixfmt.FromNative(avutil.PixelFormat(f.Format()))
}

// Data returns a slice over the frame data for the given plane.
// Returns nil if the plane does not exist or its size cannot be derived.
func (f *FrameWrapper) Data(plane int) []byte {
	if f == nil || f.frame.IsNil() || plane < 0 || plane >= 8 {
		return nil
	}

	data := avutil.GetFrameData(f.frame.ptr)
	linesize := avutil.GetFrameLinesize(f.frame.ptr)

	if data[plane] == nil {
		return nil
	}

	format := f.PixelFormat()
	height := f.Height()
	if plane > 0 && plane < format.PlaneCount() {
		height = format.Height(height, plane)
	}
	size := int(linesize[plane]) * height
	if size <= 0 {
		return nil
	}

	return unsafe.Slice((*byte)(data[plane]), size)
}

// Linesize returns the line size (stride) for the given plane.
func (f *FrameWrapper) Linesize(plane int) int {
	if f == nil || f.frame.IsNil() || plane < 0 || plane >= 8 {
		return 0
	}
	linesize := avutil.GetFrameLinesize(f.frame.ptr)
	return int(linesize[plane])
}

// IsKeyFrame reports whether this is a keyframe.
func (f *FrameWrapper) IsKeyFrame() bool {
	if f == nil || f.frame.IsNil() {
		return false
	}
	return avutil.GetFrameKeyFrame(f.frame.ptr) != 0
}

// Copy creates a new owned reference to the same underlying buffers.
func (f *FrameWrapper) Copy() (*FrameWrapper, error) {
	if f == nil || f.frame.IsNil() {
		return nil, nil
	}

	newFrame := avutil.FrameAlloc()
	if newFrame == nil {
		return nil, ErrOutOfMemory
	}

	if err := avutil.FrameRef(newFrame, f.frame.ptr); err != nil {
		avutil.FrameFree(&newFrame)
		return nil, err
	}

	return &FrameWrapper{
		frame: Frame{ptr: newFrame, owned: true},
	}, nil
}

// Free releases the frame resources. After calling Free the frame must not be used.
func (f *FrameWrapper) Free() error {
	if f == nil {
		return nil
	}
	return f.frame.Free()
}
