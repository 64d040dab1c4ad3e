//go:build !ios && !android && (amd64 || arm64)

package decoder

import (
	"os"
	"testing"

	"github.com/lucent-av/vidcore/avcodec"
	"github.com/lucent-av/vidcore/avutil"
	"github.com/lucent-av/vidcore/internal/bindings"
)

var ffmpegAvailable bool

func TestMain(m *testing.M) {
	if err := bindings.Load(); err == nil {
		ffmpegAvailable = true
	}
	os.Exit(m.Run())
}

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if !ffmpegAvailable {
		t.Skip("FFmpeg not available")
	}
}

func TestReuseStateValid(t *testing.T) {
	r := reuseState{pixFmt: avutil.PixelFormatNone}
	if r.valid() {
		t.Fatal("reuseState holding PixelFormatNone should not be valid")
	}
	r.pixFmt = avutil.PixelFormatYUV420P
	if !r.valid() {
		t.Fatal("reuseState with a real pixel format should be valid")
	}
}

func TestContainsFormat(t *testing.T) {
	list := []avutil.PixelFormat{avutil.PixelFormatYUV420P, avutil.PixelFormatNV12}
	if !containsFormat(list, avutil.PixelFormatNV12) {
		t.Fatal("containsFormat missed a present format")
	}
	if containsFormat(list, avutil.PixelFormatRGBA) {
		t.Fatal("containsFormat found a format that isn't in the list")
	}
}

func TestInt32Slice(t *testing.T) {
	got := int32Slice([]avutil.PixelFormat{avutil.PixelFormatYUV420P, avutil.PixelFormatNV12})
	want := []int32{int32(avutil.PixelFormatYUV420P), int32(avutil.PixelFormatNV12)}
	if len(got) != len(want) {
		t.Fatalf("int32Slice length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("int32Slice[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOpenUnknownCodecFails(t *testing.T) {
	skipIfNoFFmpeg(t)
	_, err := Open(avcodec.CodecID(999999), nil, false)
	if err == nil {
		t.Fatal("Open with an unknown codec ID should fail")
	}
}

func TestOpenAndCloseH264SoftwarePath(t *testing.T) {
	skipIfNoFFmpeg(t)
	d, err := Open(avcodec.CodecIDH264, nil, false)
	if err != nil {
		t.Fatalf("Open(H264) failed: %v", err)
	}
	if d.VideoFormat() != nil {
		t.Fatal("VideoFormat should be nil before the first decoded frame")
	}
	d.Close()
	d.Close() // idempotent
}

func TestDecoderFromOpaqueUnknownHandle(t *testing.T) {
	if d := decoderFromOpaque(0); d != nil {
		t.Fatal("decoderFromOpaque(0) should return nil for an unregistered handle")
	}
}
