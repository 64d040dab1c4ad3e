//go:build !ios && !android && (amd64 || arm64)

// Package videoformat builds the per-frame VideoFormatInfo descriptor the
// decoder stamps onto every published frame: aligned plane dimensions,
// visible region, SAR, and the colorspace/transfer/primaries/range/
// chroma-location metadata the render stage reads to pick a color matrix.
package videoformat

import (
	"unsafe"

	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/pixfmt"
	"github.com/lucent-av/vidcore/vaccel"
)

// maxDisplayDimension bounds coded/visible width and height (spec §4.2 step 4).
const maxDisplayDimension = 8192

// ErrInvalidDisplaySize is returned when coded or visible dimensions fall
// outside (0, 8192] or visible exceeds coded.
var ErrInvalidDisplaySize = errInvalidDisplaySize{}

type errInvalidDisplaySize struct{}

func (errInvalidDisplaySize) Error() string { return "videoformat: invalid display size" }

// Chroma is a FourCC-like tag identifying a pixel layout family, narrower
// than pixfmt.PixelFormat: it collapses the catalogue's separate LE/BE
// entries onto one tag.
type Chroma string

// ChromaFor derives the software chroma tag for an internal pixel format by
// stripping its endianness suffix.
func ChromaFor(p pixfmt.PixelFormat) Chroma {
	name := p.Name()
	if len(name) >= 2 {
		if suf := name[len(name)-2:]; suf == "le" || suf == "be" {
			name = name[:len(name)-2]
		}
	}
	return Chroma(name)
}

// ColorRange distinguishes full-range from studio/limited-range samples.
type ColorRange int32

const (
	ColorRangeUnspecified ColorRange = iota
	ColorRangeFull
	ColorRangeLimited
)

// ColorSpace is the YUV<->RGB conversion matrix family.
type ColorSpace int32

const (
	ColorSpaceUnspecified ColorSpace = iota
	ColorSpaceBT601
	ColorSpaceBT709
	ColorSpaceBT2020
)

// ColorTransfer is the transfer (gamma) characteristic.
type ColorTransfer int32

const (
	ColorTransferUnspecified ColorTransfer = iota
	ColorTransferLinear
	ColorTransferSRGB
	ColorTransferBT709
	ColorTransferBT2020
	ColorTransferARIBB67
	ColorTransferSMPTEST2084
	ColorTransferSMPTE240
	ColorTransferBT470BG
)

// ColorPrimaries is the color primaries gamut.
type ColorPrimaries int32

const (
	ColorPrimariesUnspecified ColorPrimaries = iota
	ColorPrimariesBT709
	ColorPrimariesBT601525
	ColorPrimariesBT601625
	ColorPrimariesBT2020
)

// ChromaLocation is the chroma sample siting convention.
type ChromaLocation int32

const (
	ChromaLocationUnspecified ChromaLocation = iota
	ChromaLocationLeft
	ChromaLocationCenter
	ChromaLocationTopLeft
)

// Native codec-engine enum values (AVColorRange, AVColorSpace,
// AVColorTransferCharacteristic, AVColorPrimaries, AVChromaLocation).
const (
	nativeRangeUnspecified = 0
	nativeRangeMPEG        = 1 // limited
	nativeRangeJPEG        = 2 // full

	nativeSpaceBT709       = 1
	nativeSpaceUnspecified = 2
	nativeSpaceBT470BG     = 5
	nativeSpaceSMPTE170M   = 6
	nativeSpaceBT2020NCL   = 9
	nativeSpaceBT2020CL    = 10

	nativeTRCBT709       = 1
	nativeTRCUnspecified = 2
	nativeTRCGamma22     = 4
	nativeTRCGamma28     = 5
	nativeTRCSMPTE170M   = 6
	nativeTRCSMPTE240M   = 7
	nativeTRCLinear      = 8
	nativeTRCSRGB        = 13
	nativeTRCBT2020_10   = 14
	nativeTRCBT2020_12   = 15
	nativeTRCSMPTE2084   = 16
	nativeTRCARIBSTDB67  = 18

	nativePrimariesBT709       = 1
	nativePrimariesUnspecified = 2
	nativePrimariesBT470BG     = 5
	nativePrimariesSMPTE170M   = 6
	nativePrimariesSMPTE240M   = 7
	nativePrimariesBT2020      = 9

	nativeChromaLocUnspecified = 0
	nativeChromaLocLeft        = 1
	nativeChromaLocCenter      = 2
	nativeChromaLocTopLeft     = 3
)

// PlaneInfo is the per-plane layout of a built VideoFormatInfo.
type PlaneInfo struct {
	Pitch        int32
	VisiblePitch int32
	Lines        int32
	VisibleLines int32
	PixelPitch   int32
}

// VideoFormatInfo is the per-decoded-frame descriptor attached as each
// frame's opaque value (spec §3).
type VideoFormatInfo struct {
	Chroma           Chroma
	SoftwareDecoding bool
	Width, Height    int32
	VisibleWidth     int32
	VisibleHeight    int32
	Planes           [4]PlaneInfo
	PlaneCount       int
	SARNum, SARDen   int32
	ColorRangeFull   bool
	Space            ColorSpace
	Transfer         ColorTransfer
	Primaries        ColorPrimaries
	ChromaLocation   ChromaLocation
	ExtraInfo        unsafe.Pointer
}

// Build derives a VideoFormatInfo from the codec context's negotiated
// format (spec §4.2). va is nil on the software path.
func Build(ctx avcodec.Context, pixFmt, swPixFmt avutil.PixelFormat, va vaccel.VideoAcceleration) (*VideoFormatInfo, error) {
	info := &VideoFormatInfo{SoftwareDecoding: pixFmt == swPixFmt}

	codedWidth := avcodec.GetCtxCodedWidth(ctx)
	codedHeight := avcodec.GetCtxCodedHeight(ctx)
	visibleWidth := avcodec.GetCtxWidth(ctx)
	visibleHeight := avcodec.GetCtxHeight(ctx)
	if codedWidth == 0 {
		codedWidth = visibleWidth
	}
	if codedHeight == 0 {
		codedHeight = visibleHeight
	}

	if codedWidth <= 0 || codedWidth > maxDisplayDimension ||
		codedHeight <= 0 || codedHeight > maxDisplayDimension ||
		visibleWidth > codedWidth || visibleHeight > codedHeight {
		return nil, ErrInvalidDisplaySize
	}

	var internalPix pixfmt.PixelFormat
	if info.SoftwareDecoding {
		internalPix = pixfmt.FromNative(swPixFmt)
		info.Chroma = ChromaFor(internalPix)

		width, linesizes := growAlignedWidth(swPixFmt, codedWidth, internalPix.PlaneCount())
		codedWidth = width
		info.PlaneCount = internalPix.PlaneCount()
		for i := 0; i < info.PlaneCount && i < 4; i++ {
			info.Planes[i] = PlaneInfo{
				Pitch:        linesizes[i],
				VisiblePitch: int32(internalPix.BytesPerLine(int(visibleWidth), i)),
				Lines:        int32(internalPix.Height(int(codedHeight), i)),
				VisibleLines: int32(internalPix.Height(int(visibleHeight), i)),
				PixelPitch:   int32(internalPix.BytesPerPixelPlane(i)),
			}
		}
	} else {
		internalPix = pixfmt.FromNative(pixFmt)
		info.Chroma = Chroma(fourCCString(vaChromaFor(va, pixFmt, swPixFmt)))
		info.PlaneCount = 0 // HW surfaces carry no addressable planes (spec invariant)
		if va != nil {
			info.ExtraInfo = va.ExtraInfoForRender()
		}
	}

	info.Width = codedWidth
	info.Height = codedHeight
	info.VisibleWidth = visibleWidth
	info.VisibleHeight = visibleHeight

	sar := avcodec.GetCtxSampleAspectRatio(ctx)
	if sar.Num == 0 || sar.Den == 0 {
		sar.Num, sar.Den = 1, 1
	}
	info.SARNum, info.SARDen = sar.Num, sar.Den

	rangeNative := avcodec.GetCtxColorRange(ctx)
	isYUV := !internalPix.IsRGB() && !internalPix.IsXYZ()
	info.ColorRangeFull = mapColorRange(rangeNative, isYUV)
	info.Space = mapColorSpace(avcodec.GetCtxColorSpace(ctx))
	info.Transfer = mapColorTransfer(avcodec.GetCtxColorTRC(ctx))
	info.Primaries = mapColorPrimaries(avcodec.GetCtxColorPrimaries(ctx))
	info.ChromaLocation = mapChromaLocation(avcodec.GetCtxChromaSampleLocation(ctx))

	return info, nil
}

func vaChromaFor(va vaccel.VideoAcceleration, hwFmt, swFmt avutil.PixelFormat) uint32 {
	if va == nil {
		return 0
	}
	return va.ChromaFor(hwFmt, swFmt)
}

func fourCCString(tag uint32) string {
	if tag == 0 {
		return ""
	}
	b := [4]byte{byte(tag), byte(tag >> 8), byte(tag >> 16), byte(tag >> 24)}
	return string(b[:])
}

// growAlignedWidth iteratively widens width until every plane's linesize at
// that width is a multiple of 16 (spec §4.2 step 5), mirroring
// SimpleDecoder's alignment loop.
func growAlignedWidth(pixFmt avutil.PixelFormat, width int32, planeCount int) (int32, [4]int32) {
	var linesizes [4]int32
	for {
		if err := avutil.FillLinesizes(&linesizes, int32(pixFmt), width); err != nil {
			return width, linesizes
		}
		aligned := true
		for i := 0; i < planeCount && i < 4; i++ {
			if linesizes[i]%16 != 0 {
				aligned = false
				break
			}
		}
		if aligned || width > maxDisplayDimension {
			return width, linesizes
		}
		width++
	}
}

func mapColorRange(native int32, isYUV bool) bool {
	switch native {
	case nativeRangeJPEG:
		return true
	case nativeRangeMPEG:
		return false
	default: // unspecified
		return !isYUV
	}
}

func mapColorSpace(native int32) ColorSpace {
	switch native {
	case nativeSpaceBT709:
		return ColorSpaceBT709
	case nativeSpaceSMPTE170M, nativeSpaceBT470BG:
		return ColorSpaceBT601
	case nativeSpaceBT2020NCL, nativeSpaceBT2020CL:
		return ColorSpaceBT2020
	default:
		return ColorSpaceUnspecified
	}
}

func mapColorTransfer(native int32) ColorTransfer {
	switch native {
	case nativeTRCLinear:
		return ColorTransferLinear
	case nativeTRCGamma22:
		return ColorTransferSRGB
	case nativeTRCBT709:
		return ColorTransferBT709
	case nativeTRCSMPTE170M, nativeTRCBT2020_10, nativeTRCBT2020_12:
		return ColorTransferBT2020
	case nativeTRCARIBSTDB67:
		return ColorTransferARIBB67
	case nativeTRCSMPTE2084:
		return ColorTransferSMPTEST2084
	case nativeTRCSMPTE240M:
		return ColorTransferSMPTE240
	case nativeTRCGamma28:
		return ColorTransferBT470BG
	default:
		return ColorTransferUnspecified
	}
}

func mapColorPrimaries(native int32) ColorPrimaries {
	switch native {
	case nativePrimariesBT709:
		return ColorPrimariesBT709
	case nativePrimariesBT470BG:
		return ColorPrimariesBT601625
	case nativePrimariesSMPTE170M, nativePrimariesSMPTE240M:
		return ColorPrimariesBT601525
	case nativePrimariesBT2020:
		return ColorPrimariesBT2020
	default:
		return ColorPrimariesUnspecified
	}
}

func mapChromaLocation(native int32) ChromaLocation {
	switch native {
	case nativeChromaLocLeft:
		return ChromaLocationLeft
	case nativeChromaLocCenter:
		return ChromaLocationCenter
	case nativeChromaLocTopLeft:
		return ChromaLocationTopLeft
	default:
		return ChromaLocationUnspecified
	}
}
