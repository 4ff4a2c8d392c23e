// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestCString(t *testing.T) {
	assert.Equal(t, "bad json", cString([]byte("bad json\x00garbage")))
	assert.Equal(t, "", cString(make([]byte, 8)))
	assert.Equal(t, "unterminated", cString([]byte("unterminated")))
}

func TestGoString(t *testing.T) {
	buf := []byte("source not found\x00")
	assert.Equal(t, "source not found", goString(uintptr(unsafe.Pointer(&buf[0]))))
	assert.Equal(t, "", goString(0))
}

func TestNativeRegistry(t *testing.T) {
	e := &nativeEngine{}
	id := registerNative(e)
	assert.NotZero(t, id)
	assert.Same(t, e, lookupNative(id))

	unregisterNative(id)
	assert.Nil(t, lookupNative(id))
}

func TestRenderStillCallbackDelivers(t *testing.T) {
	var got []error
	calls := 0
	e := &nativeEngine{}
	e.pending = func(err error) {
		calls++
		got = append(got, err)
	}
	id := registerNative(e)
	defer unregisterNative(id)

	msg := []byte("renderer lost\x00")
	onRenderStill(id, uintptr(unsafe.Pointer(&msg[0])))
	onRenderStill(id, 0) // no pending completion: ignored

	assert.Equal(t, 1, calls)
	assert.EqualError(t, got[0], "renderer lost")
}

func TestFrontendCallbackDispatch(t *testing.T) {
	g := newFakeGL()
	tgt := NewOffscreenTarget(g, 8, 8)
	defer tgt.Destroy()
	e := &nativeEngine{frontend: &targetFrontend{target: tgt}, observer: NopObserver{}}
	id := registerNative(e)
	defer unregisterNative(id)

	onFrontendEvent(id, frontendRenderBegin)
	assert.True(t, tgt.Active())
	onFrontendEvent(id, frontendRenderEnd)
	assert.False(t, tgt.Active())

	assert.Equal(t, uintptr(1), onObserverEvent(id, observerCanRemoveUnusedStyleImage, 0, 0))
	assert.Equal(t, uintptr(1), onObserverEvent(id+1000, observerCanRemoveUnusedStyleImage, 0, 0))
}
