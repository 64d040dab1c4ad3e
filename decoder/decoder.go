//go:build !ios && !android && (amd64 || arm64)

// Package decoder drives the codec engine through a single video stream:
// it implements the get_format/get_buffer2 callback dance, owns the
// optional hardware-acceleration context the negotiation produces, and
// publishes each successfully decoded frame into a lock-guarded output
// slot for the render actor to pick up (spec component C4, SimpleDecoder).
//
// The codec context and its two frame slots (decoded, output) belong to a
// single decode actor; Render is the only method the render actor calls,
// and it runs entirely under the slot's lock so a reader never observes a
// half-published frame.
package decoder

import (
	"sync"
	"unsafe"

	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/bindings"
	"github.com/lucent-av/vidcore/internal/handles"
	"github.com/lucent-av/vidcore/vaccel"
	"github.com/lucent-av/vidcore/videoformat"
)

// reuseState bundles the five fields get_format's reuse check compares
// against the incoming AVCodecContext, kept together so the reuse
// decision is a pure function of (reuseState, ctx) (spec "Reuse-path
// state" design note).
type reuseState struct {
	pixFmt  avutil.PixelFormat
	profile int32
	level   int32
	width   int32
	height  int32
}

func (r reuseState) valid() bool { return r.pixFmt != avutil.PixelFormatNone }

// Decoder is SimpleDecoder: it owns one AVCodecContext, the decode/output
// frame slots, and an optional VideoAcceleration context.
type Decoder struct {
	mu sync.Mutex // guards output and videoFormat

	ctx    avcodec.Context
	handle uintptr
	useHW  bool
	opened bool

	va    vaccel.VideoAcceleration
	reuse reuseState

	decoded avutil.Frame
	output  avutil.Frame

	videoFormat *videoformat.VideoFormatInfo
}

// Open resolves codecID against the engine's decoder table, allocates a
// context, installs the get_format/get_buffer2 callbacks, and opens the
// codec (spec §4.4 "Setup"). useHW enables the hardware-acceleration path
// in get_format; extradata is copied into an engine-owned, padded buffer.
func Open(codecID avcodec.CodecID, extradata []byte, useHW bool) (*Decoder, error) {
	if err := bindings.Load(); err != nil {
		return nil, ErrDecoderInitFailed
	}

	codec := avcodec.FindDecoder(codecID)
	if codec == nil {
		return nil, ErrDecoderInitFailed
	}

	ctx := avcodec.AllocContext3(codec)
	if ctx == nil {
		return nil, ErrDecoderInitFailed
	}

	d := &Decoder{ctx: ctx, useHW: useHW}
	d.reuse.pixFmt = avutil.PixelFormatNone
	d.handle = handles.Register(d)

	avcodec.SetCtxOpaque(ctx, d.handle)
	ensureCallbacksRegistered()
	avcodec.SetCtxGetFormat(ctx, getFormatCBPtr)
	avcodec.SetCtxGetBuffer2(ctx, getBuffer2CBPtr)

	avcodec.SetCtxThreadCount(ctx, 1)
	avcodec.SetCtxThreadType(ctx, 0)
	avcodec.SetCtxThreadSafeCallbacks(ctx, true)
	_ = avutil.OptSetInt(ctx, "refcounted_frames", 1)

	if len(extradata) > 0 {
		if err := avcodec.SetCtxExtradata(ctx, extradata); err != nil {
			d.teardownContext()
			return nil, ErrDecoderInitFailed
		}
	}

	if err := avcodec.Open2(ctx, codec, nil); err != nil {
		d.teardownContext()
		return nil, ErrDecoderInitFailed
	}

	d.decoded = avutil.FrameAlloc()
	if d.decoded == nil {
		d.teardownContext()
		return nil, ErrDecoderInitFailed
	}

	d.opened = true
	return d, nil
}

func (d *Decoder) teardownContext() {
	if d.ctx != nil {
		avcodec.FreeContext(&d.ctx)
	}
	if d.handle != 0 {
		handles.Unregister(d.handle)
		d.handle = 0
	}
}

// SendPacket forwards pkt to the codec engine. Ownership of pkt is
// consumed regardless of outcome: the packet is always freed (spec §4.4
// "Packet submission").
func (d *Decoder) SendPacket(pkt avcodec.Packet) error {
	err := avcodec.SendPacket(d.ctx, pkt)
	avcodec.PacketFree(&pkt)
	return err
}

// Receive pulls the next decoded frame from the engine. On success it
// clones the frame into the output slot under lock, stamping the clone's
// opaque pointer with the decoder's current VideoFormatInfo. EOF clears
// the slot and flushes engine buffers; frames carrying decode-error or
// special flags are dropped without publication (spec §4.4 "Frame
// retrieval").
func (d *Decoder) Receive() error {
	err := avcodec.ReceiveFrame(d.ctx, d.decoded)
	if err != nil {
		if avutil.IsEOF(err) {
			d.mu.Lock()
			if d.output != nil {
				avutil.FrameFree(&d.output)
			}
			d.mu.Unlock()
			avcodec.FlushBuffers(d.ctx)
			return ErrEndOfStream
		}
		return err
	}

	if avutil.GetFrameDecodeErrorFlags(d.decoded) != 0 || avutil.GetFrameFlags(d.decoded) != 0 {
		avutil.FrameUnref(d.decoded)
		return ErrFrameDropped
	}

	clone := avutil.FrameClone(d.decoded)
	if clone == nil {
		return ErrFrameDropped
	}
	avutil.SetFrameOpaque(clone, unsafe.Pointer(d.videoFormat))

	d.mu.Lock()
	if d.output != nil {
		avutil.FrameFree(&d.output)
	}
	d.output = clone
	d.mu.Unlock()
	return nil
}

// Render acquires the output lock and invokes cb with the current output
// frame and its VideoFormatInfo. cb must not block on I/O: it runs while
// the decode actor is excluded from the slot (spec §4.4 "Rendering
// entry", §5).
func (d *Decoder) Render(cb func(frame avutil.Frame, info *videoformat.VideoFormatInfo)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cb(d.output, d.videoFormat)
}

// VideoFormat returns the VideoFormatInfo negotiated for the current
// pixel format, or nil before the first successful get_format call.
func (d *Decoder) VideoFormat() *videoformat.VideoFormatInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.videoFormat
}

// Acceleration returns the active VideoAcceleration backend, or nil on
// the software path.
func (d *Decoder) Acceleration() vaccel.VideoAcceleration {
	return d.va
}

// Close tears down the codec context, frees both frame slots, and closes
// any active VA context. Idempotent.
func (d *Decoder) Close() {
	if !d.opened {
		return
	}
	d.opened = false

	avcodec.Close(d.ctx)
	avcodec.FreeContext(&d.ctx)

	if d.decoded != nil {
		avutil.FrameFree(&d.decoded)
	}
	d.mu.Lock()
	if d.output != nil {
		avutil.FrameFree(&d.output)
	}
	d.mu.Unlock()

	if d.va != nil {
		d.va.Close()
		d.va = nil
	}

	if d.handle != 0 {
		handles.Unregister(d.handle)
		d.handle = 0
	}
}

// decoderFromOpaque recovers the owning *Decoder from an AVCodecContext's
// opaque field, which holds a handles.Register token (see
// avcodec.SetCtxOpaque in Open).
func decoderFromOpaque(handle uintptr) *Decoder {
	v := handles.Lookup(handle)
	if v == nil {
		return nil
	}
	d, _ := v.(*Decoder)
	return d
}
