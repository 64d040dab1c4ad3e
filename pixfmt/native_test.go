//go:build !ios && !android && (amd64 || arm64)

package pixfmt

import (
	"testing"

	"github.com/lucent-av/vidcore/avutil"
)

func TestFromNativeKnownTag(t *testing.T) {
	if got := FromNative(avutil.PixelFormatYUV420P); got != YUV420P {
		t.Fatalf("FromNative(YUV420P) = %v, want YUV420P", got)
	}
	if got := FromNative(avutil.PixelFormatNV12); got != NV12 {
		t.Fatalf("FromNative(NV12) = %v, want NV12", got)
	}
}

func TestFromNativeUnknownTagIsInvalid(t *testing.T) {
	if got := FromNative(avutil.PixelFormat(-999)); got != Invalid {
		t.Fatalf("FromNative(unknown) = %v, want Invalid", got)
	}
}

func TestToNativeRoundTripsThroughYUV420P(t *testing.T) {
	if got := ToNative(YUV420P); got != avutil.PixelFormatYUV420P {
		t.Fatalf("ToNative(YUV420P) = %v, want avutil.PixelFormatYUV420P", got)
	}
}

func TestToNativeJpegPrefersYUVJ420P(t *testing.T) {
	if got := ToNative(Jpeg); got != avutil.PixelFormatYUVJ420P {
		t.Fatalf("ToNative(Jpeg) = %v, want avutil.PixelFormatYUVJ420P", got)
	}
}

func TestVAAPIRoundTripsHWAccelFormat(t *testing.T) {
	if got := FromNative(avutil.PixelFormatVAAPI); got != VAAPI {
		t.Fatalf("FromNative(VAAPI) = %v, want VAAPI", got)
	}
	if got := ToNative(VAAPI); got != avutil.PixelFormatVAAPI {
		t.Fatalf("ToNative(VAAPI) = %v, want avutil.PixelFormatVAAPI", got)
	}
}
