//go:build !ios && !android && (amd64 || arm64)

package decoder

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/bindings"
	"github.com/lucent-av/vidcore/internal/shim"
	"github.com/lucent-av/vidcore/pixfmt"
	"github.com/lucent-av/vidcore/vaccel"
	"github.com/lucent-av/vidcore/videoformat"
)

// avLogWarning mirrors AV_LOG_WARNING (log.go's LogWarning); the decoder
// logs through the shim directly rather than importing the root package,
// which would create an import cycle (root imports decoder).
const avLogWarning = 24

// logFallback reports a HW->SW degradation through the engine's logger
// (spec §7 "HW failures degrade to SW silently (logged)"). The shim is
// optional infrastructure; if it isn't loaded this is a silent no-op,
// matching every other shim-backed feature in this module.
func logFallback(d *Decoder, msg string) {
	if shim.Load() != nil {
		return
	}
	_ = shim.Log(unsafe.Pointer(d.ctx), avLogWarning, "vidcore: "+msg)
}

// The get_format/get_buffer2 trampolines are process-global: purego hands
// the codec engine one C function pointer per callback kind, and every
// Decoder's AVCodecContext shares it. The owning *Decoder is recovered
// per-call from ctx->opaque (see decoderFromOpaque), exactly as the
// teacher's log.go trampoline recovers its Go callback through a handle
// rather than a closure.
var (
	callbacksOnce   sync.Once
	getFormatCBPtr  uintptr
	getBuffer2CBPtr uintptr
)

func ensureCallbacksRegistered() {
	callbacksOnce.Do(func() {
		getFormatCBPtr = purego.NewCallback(getFormatTrampoline)
		getBuffer2CBPtr = purego.NewCallback(getBuffer2Trampoline)
	})
}

// getFormatTrampoline implements the codec engine's get_format callback
// contract: enum AVPixelFormat get_format(AVCodecContext *s, const enum
// AVPixelFormat *fmt).
func getFormatTrampoline(_ purego.CDecl, ctx uintptr, fmts *int32) int32 {
	d := decoderFromOpaque(avcodec.GetCtxOpaque(avcodec.Context(unsafe.Pointer(ctx))))
	if d == nil || fmts == nil {
		return int32(avutil.PixelFormatNone)
	}
	candidates := readCandidates(fmts)
	chosen := d.negotiateFormat(avcodec.Context(unsafe.Pointer(ctx)), candidates)
	return int32(chosen)
}

// getBuffer2Trampoline implements get_buffer2: int get_buffer2(AVCodecContext
// *s, AVFrame *frame, int flags).
func getBuffer2Trampoline(_ purego.CDecl, ctx uintptr, frame uintptr, flags int32) int32 {
	d := decoderFromOpaque(avcodec.GetCtxOpaque(avcodec.Context(unsafe.Pointer(ctx))))
	if d == nil {
		return avutil.AVERROR_EINVAL
	}
	zeroFrameBuffers(avutil.Frame(unsafe.Pointer(frame)))
	if d.va == nil {
		return avcodec.DefaultGetBuffer2(avcodec.Context(unsafe.Pointer(ctx)), avutil.Frame(unsafe.Pointer(frame)), flags)
	}
	return d.va.GetFrame(avutil.Frame(unsafe.Pointer(frame)))
}

func readCandidates(fmts *int32) []avutil.PixelFormat {
	var out []avutil.PixelFormat
	base := unsafe.Pointer(fmts)
	for i := 0; i < 64; i++ {
		v := *(*int32)(unsafe.Pointer(uintptr(base) + uintptr(i)*4))
		if avutil.PixelFormat(v) == avutil.PixelFormatNone {
			break
		}
		out = append(out, avutil.PixelFormat(v))
	}
	return out
}

// zeroFrameBuffers clears data/linesize/buf and opaque before delegating
// to a buffer allocator, per spec §4.4 get_buffer2 step 1.
func zeroFrameBuffers(frame avutil.Frame) {
	if frame == nil {
		return
	}
	avutil.ZeroFrameBuffers(frame)
	avutil.SetFrameOpaque(frame, nil)
}

// buggyThreadedHWVersion bounds the avcodec releases where combining
// internal frame threading with a hardware-accel get_format choice could
// race against the HW context's own surface pool. Mirrors the narrow
// libavcodec 58.x window SimpleDecoder.cpp guards against.
const (
	buggyThreadedHWMajorMin = 58
	buggyThreadedHWMajorMax = 58
)

func engineHasThreadedHWBug() bool {
	v := bindings.AVCodecVersion()
	major := int((v >> 16) & 0xff)
	return major >= buggyThreadedHWMajorMin && major <= buggyThreadedHWMajorMax
}

// negotiateFormat implements get_format (spec §4.4). It is a method on
// *Decoder (rather than a free function) because the reuse path mutates
// d.reuse/d.va/d.videoFormat.
func (d *Decoder) negotiateFormat(ctx avcodec.Context, candidates []avutil.PixelFormat) avutil.PixelFormat {
	canHWAccel := false
	for _, c := range candidates {
		if pixfmt.FromNative(c).IsHWAccelerated() {
			canHWAccel = true
			break
		}
	}
	swFmt := avutil.PixelFormat(avcodec.DefaultGetFormat(ctx, int32Slice(candidates)))

	width := avcodec.GetCtxCodedWidth(ctx)
	height := avcodec.GetCtxCodedHeight(ctx)
	profile := avcodec.GetCtxProfile(ctx)
	level := avcodec.GetCtxLevel(ctx)

	if d.reuse.valid() &&
		width == d.reuse.width && height == d.reuse.height &&
		profile == d.reuse.profile &&
		level <= d.reuse.level &&
		containsFormat(candidates, d.reuse.pixFmt) {
		if info, err := videoformat.Build(ctx, d.reuse.pixFmt, swFmt, d.va); err == nil {
			d.mu.Lock()
			d.videoFormat = info
			d.mu.Unlock()
			return d.reuse.pixFmt
		}
		// Reuse is invalidated by a negotiation failure; fall through
		// and renegotiate from scratch (spec §7: "any failure reachable
		// during get_format reuse invalidates the reuse path").
	}

	if d.va != nil {
		d.va.Close()
		d.va = nil
	}
	d.reuse = reuseState{width: width, height: height, profile: profile, level: level}

	if !canHWAccel {
		return d.fallbackToSoftware(ctx, swFmt)
	}
	if !d.useHW || engineHasThreadedHWBug() && avcodec.GetCtxActiveThreadType(ctx) != 0 {
		return d.fallbackToSoftware(ctx, swFmt)
	}

	for _, backend := range vaccel.PriorityList() {
		if !containsFormat(candidates, backend.PixelFormat) {
			continue
		}
		if width == 0 || height == 0 {
			continue
		}
		va, err := backend.Create(ctx, backend.PixelFormat)
		if err != nil || va == nil {
			continue
		}
		if err := va.Open(); err != nil {
			va.Close()
			continue
		}
		info, err := videoformat.Build(ctx, backend.PixelFormat, swFmt, va)
		if err != nil {
			va.Close()
			continue
		}
		d.va = va
		d.reuse.pixFmt = backend.PixelFormat
		avcodec.ClearCtxDrawHorizBand(ctx)
		d.mu.Lock()
		d.videoFormat = info
		d.mu.Unlock()
		return backend.PixelFormat
	}

	return d.fallbackToSoftware(ctx, swFmt)
}

func (d *Decoder) fallbackToSoftware(ctx avcodec.Context, swFmt avutil.PixelFormat) avutil.PixelFormat {
	info, err := videoformat.Build(ctx, swFmt, swFmt, nil)
	if err != nil {
		// No viable format at all: report the SW default anyway, but leave
		// the reuse tuple invalid so a later call can't wrongly take the
		// reuse path against a format that was never actually negotiated.
		d.reuse.pixFmt = avutil.PixelFormatNone
		logFallback(d, "software fallback failed to build video format, reporting raw default")
		return swFmt
	}
	d.reuse.pixFmt = swFmt
	logFallback(d, "falling back to software decoding")
	d.mu.Lock()
	d.videoFormat = info
	d.mu.Unlock()
	return swFmt
}

func containsFormat(list []avutil.PixelFormat, f avutil.PixelFormat) bool {
	for _, c := range list {
		if c == f {
			return true
		}
	}
	return false
}

func int32Slice(fmts []avutil.PixelFormat) []int32 {
	out := make([]int32, len(fmts))
	for i, f := range fmts {
		out[i] = int32(f)
	}
	return out
}
