//go:build !ios && !android && (amd64 || arm64)

package vidcore

import "testing"

// requireFFmpeg skips t unless the codec engine could be loaded. Every test
// that exercises real FFI (allocating frames, opening codecs) needs this
// guard since CI environments don't all carry libavutil/libavcodec.
func requireFFmpeg(t *testing.T) bool {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
		return false
	}
	return true
}
