//go:build !ios && !android && (amd64 || arm64)

// Package pixfmt is the static catalogue of pixel formats the decode and
// render stages understand. Every query (plane count, bit depth, chroma
// subsampling, flags) is derived from a single descriptor table indexed by
// PixelFormat, mirroring how the codec engine's own av_pix_fmt_desc_get
// works: no per-variant branching, one table lookup per query.
package pixfmt

// PixelFormat is a closed enumeration of supported pixel layouts.
type PixelFormat int32

// Invalid is returned wherever a format cannot be determined or mapped.
const Invalid PixelFormat = -1

const (
	ARGB32 PixelFormat = iota
	BGRA32
	ABGR32
	RGBA32
	RGB32 // native-endian 0xAARRGGBB
	BGR32 // native-endian 0xAABBGGRR
	RGB24
	BGR24
	RGB565
	BGR565
	RGB555
	BGR555

	AYUV444
	YUV444P
	YUV422P
	YUV420P
	YUV411P
	YUV410P
	YV12
	UYVY
	VYUY
	YUYV
	YVYU
	NV12
	NV21
	IMC1
	IMC2
	IMC3
	IMC4
	Y8
	Y16

	Jpeg // yuvj420p-family full-range JPEG sampling

	YUV420P9LE
	YUV422P9LE
	YUV444P9LE
	YUV420P10LE
	YUV422P10LE
	YUV444P10LE
	YUV420P12LE
	YUV422P12LE
	YUV444P12LE
	YUV420P14LE
	YUV422P14LE
	YUV444P14LE
	YUV420P16LE
	YUV422P16LE
	YUV444P16LE
	YUV420P9BE
	YUV422P9BE
	YUV444P9BE
	YUV420P10BE
	YUV422P10BE
	YUV444P10BE
	YUV420P12BE
	YUV422P12BE
	YUV444P12BE
	YUV420P14BE
	YUV422P14BE
	YUV444P14BE
	YUV420P16BE
	YUV422P16BE
	YUV444P16BE

	RGB48 // native endian
	RGB48LE
	RGB48BE
	BGR48
	BGR48LE
	BGR48BE
	RGBA64 // native endian
	RGBA64LE
	RGBA64BE
	BGRA64 // native endian
	BGRA64LE
	BGRA64BE

	VYU // rgb422_apple texture layout: (v, y, u)
	XYZ12
	XYZ12LE
	XYZ12BE

	// VAAPI, DXVA2VLD, D3D11VAVLD and VDPAU are opaque HW-surface formats:
	// plane_count is 0 and the real pixel data lives in a platform surface
	// handle described by a VideoAcceleration backend, not in these planes.
	VAAPI
	DXVA2VLD
	D3D11VAVLD
	VDPAU

	User
)

// numFormats bounds the descriptor table; User is the last real entry.
const numFormats = int(User) + 1

// Descriptor is the invariant layout metadata for one PixelFormat.
type Descriptor struct {
	Name string

	PlaneCount    int    // -1 for an unrecognized format, 0 for opaque HW formats
	PlaneChannels [4]int // channels carried by each plane
	BitsPerPlane  [4]int // bits per plane, measured at that plane's own sample grid

	Log2ChromaW int
	Log2ChromaH int

	BigEndian     bool
	Palette       bool
	PseudoPalette bool
	BitStream     bool
	HWAccel       bool
	Planar        bool // true for planar AND semi-planar
	RGB           bool
	XYZ           bool
	Alpha         bool
}

var invalidDescriptor = Descriptor{Name: "invalid", PlaneCount: -1}

var descriptors [numFormats]Descriptor

func init() {
	for i := range descriptors {
		descriptors[i] = invalidDescriptor
	}
	buildDescriptorTable()
}

// Describe returns the descriptor for p, or an invalid sentinel descriptor
// (PlaneCount == -1) if p is out of range.
func Describe(p PixelFormat) Descriptor {
	if p < 0 || int(p) >= numFormats {
		return invalidDescriptor
	}
	return descriptors[p]
}

func set(p PixelFormat, d Descriptor) {
	descriptors[p] = d
}

// packed builds a single-plane descriptor (RGB/packed-YUV families).
func packed(name string, channels int, bitsPerChannel int, rgb, alpha, bigEndian bool) Descriptor {
	return Descriptor{
		Name:          name,
		PlaneCount:    1,
		PlaneChannels: [4]int{channels},
		BitsPerPlane:  [4]int{channels * bitsPerChannel},
		RGB:           rgb,
		Alpha:         alpha,
		BigEndian:     bigEndian,
	}
}

// packedBits builds a single-plane descriptor from an explicit total bit width
// (for non-byte-uniform layouts like RGB565/RGB555).
func packedBits(name string, channels, totalBits int, rgb, bigEndian bool) Descriptor {
	return Descriptor{
		Name:          name,
		PlaneCount:    1,
		PlaneChannels: [4]int{channels},
		BitsPerPlane:  [4]int{totalBits},
		RGB:           rgb,
		BigEndian:     bigEndian,
	}
}

// planarYUV builds a 3-plane planar YUV descriptor with Y, U, V each
// carrying bitDepth bits per sample, subsampled by (log2W, log2H) on chroma.
func planarYUV(name string, log2W, log2H, bitDepth int, bigEndian bool) Descriptor {
	return Descriptor{
		Name:          name,
		PlaneCount:    3,
		PlaneChannels: [4]int{1, 1, 1},
		BitsPerPlane:  [4]int{bitDepth, bitDepth, bitDepth},
		Log2ChromaW:   log2W,
		Log2ChromaH:   log2H,
		Planar:        true,
		BigEndian:     bigEndian,
	}
}

func buildDescriptorTable() {
	set(ARGB32, packed("argb32", 4, 8, true, true, false))
	set(BGRA32, packed("bgra32", 4, 8, true, true, false))
	set(ABGR32, packed("abgr32", 4, 8, true, true, false))
	set(RGBA32, packed("rgba32", 4, 8, true, true, false))
	set(RGB32, packed("rgb32", 4, 8, true, true, false))
	set(BGR32, packed("bgr32", 4, 8, true, true, false))
	set(RGB24, packed("rgb24", 3, 8, true, false, false))
	set(BGR24, packed("bgr24", 3, 8, true, false, false))
	set(RGB565, packedBits("rgb565", 3, 16, true, false))
	set(BGR565, packedBits("bgr565", 3, 16, true, false))
	set(RGB555, packedBits("rgb555", 3, 16, true, false))
	set(BGR555, packedBits("bgr555", 3, 16, true, false))

	set(AYUV444, packed("ayuv444", 4, 8, false, true, false))
	set(YUV444P, planarYUV("yuv444p", 0, 0, 8, false))
	set(YUV422P, planarYUV("yuv422p", 1, 0, 8, false))
	set(YUV420P, planarYUV("yuv420p", 1, 1, 8, false))
	set(YUV411P, planarYUV("yuv411p", 2, 0, 8, false))
	set(YUV410P, planarYUV("yuv410p", 2, 2, 8, false))
	set(YV12, planarYUV("yv12", 1, 1, 8, false)) // YUV420P with U/V swapped
	set(UYVY, packed("uyvy422", 3, 8, false, false, false))
	set(VYUY, packed("vyuy422", 3, 8, false, false, false))
	set(YUYV, packed("yuyv422", 3, 8, false, false, false))
	set(YVYU, packed("yvyu422", 3, 8, false, false, false))

	set(NV12, Descriptor{
		Name: "nv12", PlaneCount: 2,
		PlaneChannels: [4]int{1, 2},
		BitsPerPlane:  [4]int{8, 16},
		Log2ChromaW:   1, Log2ChromaH: 1,
		Planar: true,
	})
	set(NV21, Descriptor{
		Name: "nv21", PlaneCount: 2,
		PlaneChannels: [4]int{1, 2},
		BitsPerPlane:  [4]int{8, 16},
		Log2ChromaW:   1, Log2ChromaH: 1,
		Planar: true,
	})

	// IMC1-4: planar 4:2:0 like YUV420P but with U/V planes padded to the
	// luma plane's stride; IMC3/4 swap U and V relative to IMC1/2.
	set(IMC1, planarYUV("imc1", 1, 1, 8, false))
	set(IMC2, planarYUV("imc2", 1, 1, 8, false))
	set(IMC3, planarYUV("imc3", 1, 1, 8, false))
	set(IMC4, planarYUV("imc4", 1, 1, 8, false))

	set(Y8, Descriptor{Name: "y8", PlaneCount: 1, PlaneChannels: [4]int{1}, BitsPerPlane: [4]int{8}, Planar: true})
	set(Y16, Descriptor{Name: "y16", PlaneCount: 1, PlaneChannels: [4]int{1}, BitsPerPlane: [4]int{16}, Planar: true})

	set(Jpeg, planarYUV("yuvj420p", 1, 1, 8, false))

	for _, f := range []struct {
		fmt            PixelFormat
		name           string
		log2W, log2H   int
		bits           int
		be             bool
	}{
		{YUV420P9LE, "yuv420p9le", 1, 1, 9, false}, {YUV422P9LE, "yuv422p9le", 1, 0, 9, false}, {YUV444P9LE, "yuv444p9le", 0, 0, 9, false},
		{YUV420P10LE, "yuv420p10le", 1, 1, 10, false}, {YUV422P10LE, "yuv422p10le", 1, 0, 10, false}, {YUV444P10LE, "yuv444p10le", 0, 0, 10, false},
		{YUV420P12LE, "yuv420p12le", 1, 1, 12, false}, {YUV422P12LE, "yuv422p12le", 1, 0, 12, false}, {YUV444P12LE, "yuv444p12le", 0, 0, 12, false},
		{YUV420P14LE, "yuv420p14le", 1, 1, 14, false}, {YUV422P14LE, "yuv422p14le", 1, 0, 14, false}, {YUV444P14LE, "yuv444p14le", 0, 0, 14, false},
		{YUV420P16LE, "yuv420p16le", 1, 1, 16, false}, {YUV422P16LE, "yuv422p16le", 1, 0, 16, false}, {YUV444P16LE, "yuv444p16le", 0, 0, 16, false},
		{YUV420P9BE, "yuv420p9be", 1, 1, 9, true}, {YUV422P9BE, "yuv422p9be", 1, 0, 9, true}, {YUV444P9BE, "yuv444p9be", 0, 0, 9, true},
		{YUV420P10BE, "yuv420p10be", 1, 1, 10, true}, {YUV422P10BE, "yuv422p10be", 1, 0, 10, true}, {YUV444P10BE, "yuv444p10be", 0, 0, 10, true},
		{YUV420P12BE, "yuv420p12be", 1, 1, 12, true}, {YUV422P12BE, "yuv422p12be", 1, 0, 12, true}, {YUV444P12BE, "yuv444p12be", 0, 0, 12, true},
		{YUV420P14BE, "yuv420p14be", 1, 1, 14, true}, {YUV422P14BE, "yuv422p14be", 1, 0, 14, true}, {YUV444P14BE, "yuv444p14be", 0, 0, 14, true},
		{YUV420P16BE, "yuv420p16be", 1, 1, 16, true}, {YUV422P16BE, "yuv422p16be", 1, 0, 16, true}, {YUV444P16BE, "yuv444p16be", 0, 0, 16, true},
	} {
		set(f.fmt, planarYUV(f.name, f.log2W, f.log2H, f.bits, f.be))
	}

	set(RGB48, packed("rgb48", 3, 16, true, false, false))
	set(RGB48LE, packed("rgb48le", 3, 16, true, false, false))
	set(RGB48BE, packed("rgb48be", 3, 16, true, false, true))
	set(BGR48, packed("bgr48", 3, 16, true, false, false))
	set(BGR48LE, packed("bgr48le", 3, 16, true, false, false))
	set(BGR48BE, packed("bgr48be", 3, 16, true, false, true))
	set(RGBA64, packed("rgba64", 4, 16, true, true, false))
	set(RGBA64LE, packed("rgba64le", 4, 16, true, true, false))
	set(RGBA64BE, packed("rgba64be", 4, 16, true, true, true))
	set(BGRA64, packed("bgra64", 4, 16, true, true, false))
	set(BGRA64LE, packed("bgra64le", 4, 16, true, true, false))
	set(BGRA64BE, packed("bgra64be", 4, 16, true, true, true))

	set(VYU, packed("vyu", 3, 8, false, false, false))

	set(XYZ12, Descriptor{Name: "xyz12", PlaneCount: 1, PlaneChannels: [4]int{3}, BitsPerPlane: [4]int{36}, XYZ: true})
	set(XYZ12LE, Descriptor{Name: "xyz12le", PlaneCount: 1, PlaneChannels: [4]int{3}, BitsPerPlane: [4]int{36}, XYZ: true})
	set(XYZ12BE, Descriptor{Name: "xyz12be", PlaneCount: 1, PlaneChannels: [4]int{3}, BitsPerPlane: [4]int{36}, XYZ: true, BigEndian: true})

	for _, hw := range []struct {
		fmt  PixelFormat
		name string
	}{
		{VAAPI, "vaapi_vld"}, {DXVA2VLD, "dxva2_vld"}, {D3D11VAVLD, "d3d11va_vld"}, {VDPAU, "vdpau"},
	} {
		set(hw.fmt, Descriptor{Name: hw.name, PlaneCount: 0, HWAccel: true})
	}

	set(User, Descriptor{Name: "user", PlaneCount: 0})
}
