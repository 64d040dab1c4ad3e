//go:build !ios && !android && (amd64 || arm64)

package render

import (
	"strings"
	"testing"
)

func TestVertexSourceDeclaresOneInputPerPlane(t *testing.T) {
	s := NewVideoShader(ShaderKindPlanarYUV, 3)
	src := s.vertexSource()
	for _, want := range []string{"a_TexCoords0", "a_TexCoords1", "a_TexCoords2", "u_Matrix"} {
		if !strings.Contains(src, want) {
			t.Errorf("vertex source missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "a_TexCoords3") {
		t.Errorf("vertex source declared a fourth texcoord for a 3-plane shader")
	}
}

func TestFragmentSourcePlanarYUVSamplesThreePlanes(t *testing.T) {
	s := NewVideoShader(ShaderKindPlanarYUV, 3)
	src := s.fragmentSource()
	for _, want := range []string{"u_Texture0", "u_Texture1", "u_Texture2", "sample2d", "u_colorMatrix", "u_to8"} {
		if !strings.Contains(src, want) {
			t.Errorf("fragment source missing %q:\n%s", want, src)
		}
	}
}

func TestFragmentSourceSemiPlanarUsesTwoTextures(t *testing.T) {
	s := NewVideoShader(ShaderKindSemiPlanarYUV, 2)
	src := s.fragmentSource()
	if !strings.Contains(src, "u_Texture1") {
		t.Error("semi-planar fragment source should reference a second texture for interleaved chroma")
	}
	if strings.Contains(src, "u_Texture2") {
		t.Error("semi-planar fragment source should not reference a third texture")
	}
}

func TestFragmentSourceExternalOESUsesSamplerExternal(t *testing.T) {
	s := NewVideoShader(ShaderKindExternalOES, 1)
	src := s.fragmentSource()
	if !strings.Contains(src, "samplerExternalOES") {
		t.Error("external-OES fragment source should declare a samplerExternalOES uniform")
	}
}

func TestKindForMaterialThreePlanesIsPlanarYUV(t *testing.T) {
	m := &Material{PlaneCount: 3, Target: TextureTarget2D}
	if got := KindForMaterial(m); got != ShaderKindPlanarYUV {
		t.Fatalf("KindForMaterial = %v, want ShaderKindPlanarYUV", got)
	}
}

func TestKindForMaterialRGB(t *testing.T) {
	m := &Material{PlaneCount: 1, Target: TextureTarget2D, IsRGB: true}
	if got := KindForMaterial(m); got != ShaderKindRGB {
		t.Fatalf("KindForMaterial = %v, want ShaderKindRGB", got)
	}
}

func TestKindForMaterialExternalOES(t *testing.T) {
	m := &Material{Target: TextureTargetExternalOES}
	if got := KindForMaterial(m); got != ShaderKindExternalOES {
		t.Fatalf("KindForMaterial = %v, want ShaderKindExternalOES", got)
	}
}

