//go:build !ios && !android && (amd64 || arm64)

package render

import "errors"

// ErrShaderCompileFailed means GLSL compilation or program linking
// failed (spec §7). The associated VideoShader's program stays nil, its
// material remains dirty, and the render loop must emit a blank frame
// rather than draw with a partially built program.
var ErrShaderCompileFailed = errors.New("render: shader compile failed")
