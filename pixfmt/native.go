//go:build !ios && !android && (amd64 || arm64)

package pixfmt

import "github.com/lucent-av/vidcore/avutil"

// FromNative maps a codec-engine AVPixelFormat tag to the catalogue's closed
// PixelFormat enumeration. Returns Invalid for tags this catalogue has no
// equivalent for (palette/mono formats, YUVA420P, and the handful of
// synthesized native-endian composites that only exist on the ToNative side).
func FromNative(n avutil.PixelFormat) PixelFormat {
	if p, ok := nativeToInternal[n]; ok {
		return p
	}
	return Invalid
}

// ToNative maps a catalogue PixelFormat to the codec-engine tag used to
// request it from the decoder (SetFrameFormat and friends). Returns
// avutil.PixelFormatNone for entries with no native counterpart: the
// catalogue's generic native-endian composites (RGB32, BGR32, RGB48,
// RGBA64, BGRA64, XYZ12) resolve to their little-endian variant instead,
// since every platform this module builds for (amd64, arm64) is
// little-endian; BGR48, BGR48LE and BGR48BE have no native tag in this
// mapping and return avutil.PixelFormatNone; and the
// YV12/VYUY/YVYU/IMC*/VYU/AYUV444/User entries are application-level
// constructs the codec engine never emits as a distinct AVPixelFormat tag.
func ToNative(p PixelFormat) avutil.PixelFormat {
	if n, ok := internalToNative[p]; ok {
		return n
	}
	return avutil.PixelFormatNone
}

var nativeToInternal = map[avutil.PixelFormat]PixelFormat{
	avutil.PixelFormatYUV420P: YUV420P,
	avutil.PixelFormatYUYV422: YUYV,
	avutil.PixelFormatRGB24:   RGB24,
	avutil.PixelFormatBGR24:   BGR24,
	avutil.PixelFormatYUV422P: YUV422P,
	avutil.PixelFormatYUV444P: YUV444P,
	avutil.PixelFormatYUV410P: YUV410P,
	avutil.PixelFormatYUV411P: YUV411P,
	avutil.PixelFormatGray8:   Y8,

	// All three yuvj4:2:x JPEG-range variants collapse onto the single
	// generic Jpeg entry; the catalogue doesn't carry separate chroma
	// layouts for full-range JPEG sampling.
	avutil.PixelFormatYUVJ420P: Jpeg,
	avutil.PixelFormatYUVJ422P: Jpeg,
	avutil.PixelFormatYUVJ444P: Jpeg,

	avutil.PixelFormatUYVY422: UYVY,
	avutil.PixelFormatNV12:    NV12,
	avutil.PixelFormatNV21:    NV21,
	avutil.PixelFormatARGB:    ARGB32,
	avutil.PixelFormatRGBA:    RGBA32,
	avutil.PixelFormatABGR:    ABGR32,
	avutil.PixelFormatBGRA:    BGRA32,

	avutil.PixelFormatGray16BE: Y16,
	avutil.PixelFormatGray16LE: Y16,

	avutil.PixelFormatRGB565LE: RGB565,
	avutil.PixelFormatRGB565BE: RGB565,
	avutil.PixelFormatRGB555LE: RGB555,
	avutil.PixelFormatRGB555BE: RGB555,
	avutil.PixelFormatBGR565LE: BGR565,
	avutil.PixelFormatBGR565BE: BGR565,
	avutil.PixelFormatBGR555LE: BGR555,
	avutil.PixelFormatBGR555BE: BGR555,

	avutil.PixelFormatYUV420P9LE:  YUV420P9LE,
	avutil.PixelFormatYUV420P9BE:  YUV420P9BE,
	avutil.PixelFormatYUV422P9LE:  YUV422P9LE,
	avutil.PixelFormatYUV422P9BE:  YUV422P9BE,
	avutil.PixelFormatYUV444P9LE:  YUV444P9LE,
	avutil.PixelFormatYUV444P9BE:  YUV444P9BE,
	avutil.PixelFormatYUV420P10LE: YUV420P10LE,
	avutil.PixelFormatYUV420P10BE: YUV420P10BE,
	avutil.PixelFormatYUV422P10LE: YUV422P10LE,
	avutil.PixelFormatYUV422P10BE: YUV422P10BE,
	avutil.PixelFormatYUV444P10LE: YUV444P10LE,
	avutil.PixelFormatYUV444P10BE: YUV444P10BE,
	avutil.PixelFormatYUV420P12LE: YUV420P12LE,
	avutil.PixelFormatYUV420P12BE: YUV420P12BE,
	avutil.PixelFormatYUV422P12LE: YUV422P12LE,
	avutil.PixelFormatYUV422P12BE: YUV422P12BE,
	avutil.PixelFormatYUV444P12LE: YUV444P12LE,
	avutil.PixelFormatYUV444P12BE: YUV444P12BE,
	avutil.PixelFormatYUV420P14LE: YUV420P14LE,
	avutil.PixelFormatYUV420P14BE: YUV420P14BE,
	avutil.PixelFormatYUV422P14LE: YUV422P14LE,
	avutil.PixelFormatYUV422P14BE: YUV422P14BE,
	avutil.PixelFormatYUV444P14LE: YUV444P14LE,
	avutil.PixelFormatYUV444P14BE: YUV444P14BE,
	avutil.PixelFormatYUV420P16LE: YUV420P16LE,
	avutil.PixelFormatYUV420P16BE: YUV420P16BE,
	avutil.PixelFormatYUV422P16LE: YUV422P16LE,
	avutil.PixelFormatYUV422P16BE: YUV422P16BE,
	avutil.PixelFormatYUV444P16LE: YUV444P16LE,
	avutil.PixelFormatYUV444P16BE: YUV444P16BE,

	avutil.PixelFormatRGB48LE:  RGB48LE,
	avutil.PixelFormatRGB48BE:  RGB48BE,
	avutil.PixelFormatRGBA64BE: RGBA64BE,
	avutil.PixelFormatRGBA64LE: RGBA64LE,
	avutil.PixelFormatBGRA64BE: BGRA64BE,
	avutil.PixelFormatBGRA64LE: BGRA64LE,

	avutil.PixelFormatXYZ12LE: XYZ12LE,
	avutil.PixelFormatXYZ12BE: XYZ12BE,

	avutil.PixelFormatVAAPI:      VAAPI,
	avutil.PixelFormatDXVA2VLD:   DXVA2VLD,
	avutil.PixelFormatD3D11VAVLD: D3D11VAVLD,
	avutil.PixelFormatVDPAU:      VDPAU,
}

// internalToNative is nativeToInternal inverted, plus entries for the
// generic native-endian composites that have no native-tag source.
var internalToNative = invertPixelFormatMap()

func invertPixelFormatMap() map[PixelFormat]avutil.PixelFormat {
	m := make(map[PixelFormat]avutil.PixelFormat, len(nativeToInternal)+8)
	for native, internal := range nativeToInternal {
		if _, exists := m[internal]; !exists {
			m[internal] = native
		}
	}
	// Jpeg prefers yuvj420p as its canonical native tag (the overwhelming
	// majority case); the inversion above may have landed on 422/444
	// depending on map iteration order.
	m[Jpeg] = avutil.PixelFormatYUVJ420P

	// Native-endian composites: this module only builds for little-endian
	// hosts, so "native" resolves to the explicit LE tag.
	m[RGB32] = avutil.PixelFormatBGRA // 0xAARRGGBB in memory is B,G,R,A on LE
	m[BGR32] = avutil.PixelFormatRGBA // 0xAABBGGRR in memory is R,G,B,A on LE
	m[RGB48] = avutil.PixelFormatRGB48LE
	m[RGBA64] = avutil.PixelFormatRGBA64LE
	m[BGRA64] = avutil.PixelFormatBGRA64LE
	m[XYZ12] = avutil.PixelFormatXYZ12LE
	return m
}
