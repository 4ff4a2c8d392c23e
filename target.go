// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

// OffscreenTarget is a framebuffer with a single RGBA color texture that the
// engine draws into instead of a window surface. Its size is fixed at
// construction.
type OffscreenTarget struct {
	gl       GL
	fbo      uint32
	texture  uint32
	width    uint32
	height   uint32
	complete bool
	active   bool
}

// NewOffscreenTarget allocates the framebuffer and texture. An incomplete
// framebuffer is logged but not returned as an error: the target still owns
// its objects (and releases them on Destroy) but reports a zero texture.
func NewOffscreenTarget(g GL, width, height uint32) *OffscreenTarget {
	t := &OffscreenTarget{gl: g, width: width, height: height}
	t.fbo = g.GenFramebuffer()
	t.texture = g.GenTexture()
	if t.texture != 0 {
		g.AllocTexture(t.texture, int32(width), int32(height))
	}
	if t.fbo != 0 && t.texture != 0 {
		t.complete = g.AttachColor(t.fbo, t.texture)
	}
	if !t.complete {
		Logger().Warn("offscreen framebuffer not complete",
			"fbo", t.fbo, "texture", t.texture, "width", width, "height", height)
	}
	return t
}

// Activate binds the framebuffer and sets the viewport to cover it.
func (t *OffscreenTarget) Activate() {
	t.gl.BindFramebuffer(t.fbo)
	t.gl.Viewport(0, 0, int32(t.width), int32(t.height))
	t.active = true
}

// Deactivate restores the default framebuffer.
func (t *OffscreenTarget) Deactivate() {
	t.gl.BindFramebuffer(0)
	t.active = false
}

// Active reports whether the target is bound for drawing.
func (t *OffscreenTarget) Active() bool {
	return t.active
}

// Texture returns the color texture name, or 0 if the target is unusable.
func (t *OffscreenTarget) Texture() uint32 {
	if !t.complete {
		return 0
	}
	return t.texture
}

// Width returns the width in pixels.
func (t *OffscreenTarget) Width() uint32 { return t.width }

// Height returns the height in pixels.
func (t *OffscreenTarget) Height() uint32 { return t.height }

// ReadPixels copies the color attachment into dst as RGBA with the top row
// first. dst must hold width*height*4 bytes.
func (t *OffscreenTarget) ReadPixels(dst []byte) bool {
	n := int(t.width) * int(t.height) * 4
	if !t.complete || len(dst) < n {
		return false
	}
	wasActive := t.active
	t.gl.BindFramebuffer(t.fbo)
	t.gl.ReadPixels(int32(t.width), int32(t.height), dst)
	if !wasActive {
		t.gl.BindFramebuffer(0)
	}
	flipRows(dst[:n], int(t.width)*4)
	return true
}

// Destroy releases the texture and framebuffer. The target must not be used
// afterwards.
func (t *OffscreenTarget) Destroy() {
	if t.active {
		t.Deactivate()
	}
	if t.texture != 0 {
		t.gl.DeleteTexture(t.texture)
		t.texture = 0
	}
	if t.fbo != 0 {
		t.gl.DeleteFramebuffer(t.fbo)
		t.fbo = 0
	}
	t.complete = false
}

// flipRows reverses row order in place; GL reads bottom row first.
func flipRows(pix []byte, stride int) {
	if stride <= 0 {
		return
	}
	rows := len(pix) / stride
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
