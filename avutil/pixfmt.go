//go:build !ios && !android && (amd64 || arm64)

package avutil

// PixelFormat represents FFmpeg pixel formats.
type PixelFormat int32

// Common pixel formats (from FFmpeg's pixfmt.h)
const (
	PixelFormatNone    PixelFormat = -1
	PixelFormatYUV420P PixelFormat = 0  // Planar YUV 4:2:0
	PixelFormatYUYV422 PixelFormat = 1  // Packed YUV 4:2:2
	PixelFormatRGB24   PixelFormat = 2  // Packed RGB 8:8:8
	PixelFormatBGR24   PixelFormat = 3  // Packed BGR 8:8:8
	PixelFormatYUV422P PixelFormat = 4  // Planar YUV 4:2:2
	PixelFormatYUV444P PixelFormat = 5  // Planar YUV 4:4:4
	PixelFormatYUV410P PixelFormat = 6  // Planar YUV 4:1:0
	PixelFormatYUV411P PixelFormat = 7  // Planar YUV 4:1:1
	PixelFormatGray8   PixelFormat = 8  // 8-bit grayscale
	PixelFormatMonoW   PixelFormat = 9  // 1-bit monochrome
	PixelFormatMonoB   PixelFormat = 10 // 1-bit monochrome (black)
	PixelFormatPAL8    PixelFormat = 11 // 8-bit palette
	PixelFormatYUVJ420P PixelFormat = 12 // Planar YUV 4:2:0 (JPEG)
	PixelFormatYUVJ422P PixelFormat = 13 // Planar YUV 4:2:2 (JPEG)
	PixelFormatYUVJ444P PixelFormat = 14 // Planar YUV 4:4:4 (JPEG)

	PixelFormatNV12     PixelFormat = 23 // Planar YUV 4:2:0 (UV interleaved)
	PixelFormatNV21     PixelFormat = 24 // Planar YUV 4:2:0 (VU interleaved)
	PixelFormatARGB     PixelFormat = 25 // Packed ARGB 8:8:8:8
	PixelFormatRGBA     PixelFormat = 26 // Packed RGBA 8:8:8:8
	PixelFormatABGR     PixelFormat = 27 // Packed ABGR 8:8:8:8
	PixelFormatBGRA     PixelFormat = 28 // Packed BGRA 8:8:8:8
	PixelFormatGray16BE PixelFormat = 29 // 16-bit grayscale (big endian)
	PixelFormatGray16LE PixelFormat = 30 // 16-bit grayscale (little endian)

	PixelFormatUYVY422  PixelFormat = 15 // Packed YUV 4:2:2, UYVY
	PixelFormatYUVA420P PixelFormat = 33 // Planar YUV 4:2:0 with alpha

	PixelFormatRGB48BE PixelFormat = 41 // Packed RGB 16:16:16 (big endian)
	PixelFormatRGB48LE PixelFormat = 42 // Packed RGB 16:16:16 (little endian)
	PixelFormatRGB565BE PixelFormat = 36
	PixelFormatRGB565LE PixelFormat = 37
	PixelFormatRGB555BE PixelFormat = 38
	PixelFormatRGB555LE PixelFormat = 39
	PixelFormatBGR565BE PixelFormat = 40
	PixelFormatBGR565LE PixelFormat = 45
	PixelFormatBGR555BE PixelFormat = 46
	PixelFormatBGR555LE PixelFormat = 47

	PixelFormatYUV420P9BE  PixelFormat = 48
	PixelFormatYUV420P9LE  PixelFormat = 49
	PixelFormatYUV422P9BE  PixelFormat = 50
	PixelFormatYUV422P9LE  PixelFormat = 51
	PixelFormatYUV444P9BE  PixelFormat = 52
	PixelFormatYUV444P9LE  PixelFormat = 53
	PixelFormatYUV420P10BE PixelFormat = 54
	PixelFormatYUV420P10LE PixelFormat = 55
	PixelFormatYUV422P10BE PixelFormat = 56
	PixelFormatYUV422P10LE PixelFormat = 57
	PixelFormatYUV444P10BE PixelFormat = 58
	PixelFormatYUV444P10LE PixelFormat = 59
	PixelFormatYUV420P16BE PixelFormat = 60
	PixelFormatYUV420P16LE PixelFormat = 61
	PixelFormatYUV422P16BE PixelFormat = 62
	PixelFormatYUV422P16LE PixelFormat = 63
	PixelFormatYUV444P16BE PixelFormat = 65
	PixelFormatYUV444P16LE PixelFormat = 66

	PixelFormatRGBA64BE PixelFormat = 67 // Packed RGBA 16:16:16:16 (big endian)
	PixelFormatRGBA64LE PixelFormat = 68 // Packed RGBA 16:16:16:16 (little endian)
	PixelFormatBGRA64BE PixelFormat = 69
	PixelFormatBGRA64LE PixelFormat = 70

	PixelFormatYUV420P12BE PixelFormat = 71
	PixelFormatYUV420P12LE PixelFormat = 72
	PixelFormatYUV422P12BE PixelFormat = 73
	PixelFormatYUV422P12LE PixelFormat = 74
	PixelFormatYUV444P12BE PixelFormat = 75
	PixelFormatYUV444P12LE PixelFormat = 76
	PixelFormatYUV420P14BE PixelFormat = 77
	PixelFormatYUV420P14LE PixelFormat = 78
	PixelFormatYUV422P14BE PixelFormat = 79
	PixelFormatYUV422P14LE PixelFormat = 80
	PixelFormatYUV444P14BE PixelFormat = 81
	PixelFormatYUV444P14LE PixelFormat = 82

	PixelFormatXYZ12LE PixelFormat = 83
	PixelFormatXYZ12BE PixelFormat = 84

	// Opaque hardware-surface formats. Real values are build/version specific;
	// these are the ones this binding's supported FFmpeg build reports.
	PixelFormatVAAPI     PixelFormat = 121
	PixelFormatDXVA2VLD  PixelFormat = 122
	PixelFormatD3D11VAVLD PixelFormat = 123
	PixelFormatVDPAU     PixelFormat = 124
)

// MediaType represents FFmpeg media types.
type MediaType int32

const (
	MediaTypeUnknown    MediaType = -1
	MediaTypeVideo      MediaType = 0
	MediaTypeAudio      MediaType = 1
	MediaTypeData       MediaType = 2
	MediaTypeSubtitle   MediaType = 3
	MediaTypeAttachment MediaType = 4
)

// SampleFormat represents FFmpeg audio sample formats.
type SampleFormat int32

const (
	SampleFormatNone SampleFormat = -1
	SampleFormatU8   SampleFormat = 0  // Unsigned 8-bit
	SampleFormatS16  SampleFormat = 1  // Signed 16-bit
	SampleFormatS32  SampleFormat = 2  // Signed 32-bit
	SampleFormatFlt  SampleFormat = 3  // Float 32-bit
	SampleFormatDbl  SampleFormat = 4  // Float 64-bit
	SampleFormatU8P  SampleFormat = 5  // Unsigned 8-bit planar
	SampleFormatS16P SampleFormat = 6  // Signed 16-bit planar
	SampleFormatS32P SampleFormat = 7  // Signed 32-bit planar
	SampleFormatFltP SampleFormat = 8  // Float 32-bit planar
	SampleFormatDblP SampleFormat = 9  // Float 64-bit planar
	SampleFormatS64  SampleFormat = 10 // Signed 64-bit
	SampleFormatS64P SampleFormat = 11 // Signed 64-bit planar
)
