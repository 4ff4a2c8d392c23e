// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// GL is the slice of OpenGL the offscreen target needs. The default
// implementation calls go-gl against whatever context is current on the
// calling thread; tests substitute a resource-counting double.
type GL interface {
	GenFramebuffer() uint32
	GenTexture() uint32
	// AllocTexture defines tex as an uninitialized RGBA8 image of the given size.
	AllocTexture(tex uint32, width, height int32)
	// AttachColor attaches tex as fbo's color output and reports whether the
	// framebuffer is complete. The default framebuffer is bound on return.
	AttachColor(fbo, tex uint32) bool
	BindFramebuffer(fbo uint32)
	Viewport(x, y, width, height int32)
	// ReadPixels reads the bound framebuffer as RGBA rows, bottom row first.
	ReadPixels(width, height int32, dst []byte)
	DeleteTexture(tex uint32)
	DeleteFramebuffer(fbo uint32)
}

var (
	glInitOnce sync.Once
	glInitErr  error
)

// DefaultGL loads the OpenGL 3.3 core entry points and returns the go-gl
// backed implementation. A context must be current on the calling thread.
func DefaultGL() (GL, error) {
	glInitOnce.Do(func() {
		if err := gl.Init(); err != nil {
			glInitErr = fmt.Errorf("gl init: %w", err)
		}
	})
	if glInitErr != nil {
		return nil, glInitErr
	}
	return goGL{}, nil
}

type goGL struct{}

func (goGL) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (goGL) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (goGL) AllocTexture(tex uint32, width, height int32) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (goGL) AttachColor(fbo, tex uint32) bool {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	complete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return complete
}

func (goGL) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (goGL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (goGL) ReadPixels(width, height int32, dst []byte) {
	if len(dst) < int(width)*int(height)*4 {
		return
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&dst[0]))
}

func (goGL) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (goGL) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}
