// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

// Package audiopath manages exclusive routing assignments on the shared
// audio bus. A path connects one source to one sink; callers obtain a
// handle with Request and must pair it with exactly one Release. Handles
// are plain integers so a zero value always means "no path held".
package audiopath

import "sync"

// Source identifies the audio origin of a path.
type Source uint8

const (
	SourceNone Source = iota
	SourceReceiver
	SourceMicrophone
)

// Sink identifies the audio destination of a path.
type Sink uint8

const (
	SinkNone Sink = iota
	SinkSpeaker
	SinkTransmitter
)

// Priority orders competing path requests. A request preempts held paths
// of strictly lower priority that share an endpoint.
type Priority uint8

const (
	PriorityBackground Priority = iota
	PriorityRX
	PriorityTX
)

// Handle is the token returned by a successful Request. Values <= 0
// denote "no path"; releasing such a value is a no-op.
type Handle int32

// None is the zero handle, held by nobody.
const None Handle = 0

type path struct {
	source   Source
	sink     Sink
	priority Priority
}

// Arbiter grants and revokes audio paths. The zero value is not usable;
// construct with New.
type Arbiter struct {
	mu    sync.Mutex
	next  Handle
	paths map[Handle]path
}

// New returns an empty arbiter.
func New() *Arbiter {
	return &Arbiter{paths: make(map[Handle]path)}
}

// Request tries to establish a path from source to sink. It returns a
// positive handle on success and None when the bus is busy with a path
// of equal or higher priority sharing either endpoint. Conflicting paths
// of lower priority are preempted (released) before the grant.
func (a *Arbiter) Request(source Source, sink Sink, priority Priority) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var preempt []Handle
	for h, p := range a.paths {
		if p.source != source && p.sink != sink {
			continue
		}
		if p.priority >= priority {
			return None
		}
		preempt = append(preempt, h)
	}
	for _, h := range preempt {
		delete(a.paths, h)
	}

	a.next++
	a.paths[a.next] = path{source: source, sink: sink, priority: priority}
	return a.next
}

// Release returns a path to the bus. Zero, negative, already-released
// and preempted handles are all safe no-ops.
func (a *Arbiter) Release(h Handle) {
	if h <= None {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.paths, h)
}

// Held reports whether h currently designates an established path.
func (a *Arbiter) Held(h Handle) bool {
	if h <= None {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.paths[h]
	return ok
}

// Active returns the number of established paths.
func (a *Arbiter) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.paths)
}
