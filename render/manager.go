//go:build !ios && !android && (amd64 || arm64)

package render

import "sync"

// ShaderManager owns the cache of compiled VideoShaders, keyed by
// material_type, for the lifetime of one render surface (spec §4.5
// "ShaderManager", §5 "Shader programs: owned by ShaderManager").
type ShaderManager struct {
	mu    sync.Mutex
	cache map[uint64]*VideoShader
}

// NewShaderManager returns an empty manager.
func NewShaderManager() *ShaderManager {
	return &ShaderManager{cache: make(map[uint64]*VideoShader)}
}

// PrepareMaterial looks up the shader for material's effective type
// (typeOverride if >= 0, else material.Type), creating and building one
// on a cache miss (spec §4.5 "prepareMaterial"). The returned
// ShaderProgram is nil when the build (and any fallback build) failed;
// ShaderProgram.Valid reports false for a nil program.
func (m *ShaderManager) PrepareMaterial(material *Material, typeOverride int64) (*ShaderProgram, error) {
	effectiveType := material.Type
	if typeOverride >= 0 {
		effectiveType = uint64(typeOverride)
	}

	m.mu.Lock()
	shader, ok := m.cache[effectiveType]
	if !ok {
		kind := KindForMaterial(material)
		shader = NewVideoShader(kind, fallbackPlaneCount(material))
		m.cache[effectiveType] = shader
	}
	m.mu.Unlock()

	if shader.program != nil && shader.program.valid && !shader.needsRebuild {
		return shader.program, nil
	}

	program, err := shader.Build()
	if err != nil {
		// Unknown/unsupported pixel format: retry once with the safest
		// compatible program, 8-bit planar YUV 4:2:0 (spec §4.5 "Failure
		// semantics"), without disturbing the cache entry for the
		// material's real type.
		if kind := shader.kind; kind != ShaderKindPlanarYUV {
			fallback := NewVideoShader(ShaderKindPlanarYUV, 3)
			if fallbackProgram, fallbackErr := fallback.Build(); fallbackErr == nil {
				return fallbackProgram, nil
			}
		}
		return program, err
	}
	return program, nil
}

func fallbackPlaneCount(m *Material) int {
	if m.PlaneCount <= 0 {
		return 1
	}
	if m.PlaneCount > 4 {
		return 4
	}
	return m.PlaneCount
}

// ShaderFor returns the cached VideoShader for a material_type, or nil
// if none has been prepared yet.
func (m *ShaderManager) ShaderFor(materialType uint64) *VideoShader {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache[materialType]
}

// Close deletes every cached program, releasing all GL objects owned by
// this manager; called when the render surface's GL context is torn
// down (spec §5 "disposed with the GL context").
func (m *ShaderManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, shader := range m.cache {
		if shader.program != nil {
			shader.program.Delete()
		}
		delete(m.cache, key)
	}
}
