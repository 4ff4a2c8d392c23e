// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package maplibreui

import "sync"

// RunLoops hands out the engine's per-thread run loop, creating it on first
// use. Loops it creates live for the rest of the process; the bridge never
// tears them down.
type RunLoops struct {
	mu      sync.Mutex
	created []RunLoop
}

// NewRunLoops returns an empty run loop context.
func NewRunLoops() *RunLoops {
	return &RunLoops{}
}

// defaultRunLoops backs Options with no explicit Loops.
var defaultRunLoops = NewRunLoops()

// Ensure returns the calling thread's run loop from lib, creating one if the
// thread has none. Never creates a second loop on a thread.
func (r *RunLoops) Ensure(lib Library) RunLoop {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loop := lib.CurrentRunLoop(); loop != nil {
		return loop
	}
	loop := lib.NewRunLoop()
	r.created = append(r.created, loop)
	Logger().Debug("created run loop", "total", len(r.created))
	return loop
}

// Created returns how many loops this context has created.
func (r *RunLoops) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}
