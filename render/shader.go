// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/naga"
)

// ShaderCache compiles WGSL sources to SPIR-V on first use and keeps the
// result, so every program is built once per device.
type ShaderCache struct {
	compile func(string) ([]byte, error)
	modules map[string][]uint32
	failed  map[string]error
}

// NewShaderCache creates a cache compiling with naga.
func NewShaderCache() *ShaderCache {
	return newShaderCache(naga.Compile)
}

func newShaderCache(compile func(string) ([]byte, error)) *ShaderCache {
	return &ShaderCache{
		compile: compile,
		modules: make(map[string][]uint32),
		failed:  make(map[string]error),
	}
}

// Module returns the SPIR-V words for the named shader, compiling source the
// first time the name is seen. A failed compilation is remembered and not
// retried.
func (c *ShaderCache) Module(name, source string) ([]uint32, error) {
	if m, ok := c.modules[name]; ok {
		return m, nil
	}
	if err, ok := c.failed[name]; ok {
		return nil, err
	}

	spirvBytes, err := c.compile(source)
	if err != nil {
		err = fmt.Errorf("render: compile shader %q: %w", name, err)
		c.failed[name] = err
		return nil, err
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	c.modules[name] = words
	return words, nil
}

// Len returns the number of successfully compiled modules.
func (c *ShaderCache) Len() int {
	return len(c.modules)
}
