// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package aprs

// Handle is a stable identifier for a record inside a Store. The zero
// handle never designates a record, so a released or stale handle can be
// passed around safely.
type Handle int32

// NoHandle is the zero handle.
const NoHandle Handle = 0

type slot struct {
	rec        Record
	prev, next Handle
	used       bool
}

// Store owns received-packet records in arrival order. Records live in a
// slab indexed by handle; the arrival sequence is kept as prev/next links
// between slots, so iteration order is insertion order regardless of how
// slots are recycled. A record belongs to exactly one Store between
// Insert and Remove/ReleaseAll.
type Store struct {
	slots      []slot // index = handle - 1
	free       []Handle
	head, tail Handle
	count      int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	return s.count
}

// Insert appends rec at the tail of the arrival sequence and returns its
// handle. The store takes ownership of the record's backing storage.
func (s *Store) Insert(rec Record) Handle {
	var h Handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		h = Handle(len(s.slots))
	}

	sl := s.slot(h)
	sl.rec = rec
	sl.used = true
	sl.prev = s.tail
	sl.next = NoHandle

	if s.tail != NoHandle {
		s.slot(s.tail).next = h
	} else {
		s.head = h
	}
	s.tail = h
	s.count++
	return h
}

// Get returns the record designated by h, or nil for stale and zero
// handles. The pointer stays valid until the record is removed.
func (s *Store) Get(h Handle) *Record {
	sl := s.lookup(h)
	if sl == nil {
		return nil
	}
	return &sl.rec
}

// Remove unlinks one record and reclaims its slot. Stale, zero and
// already-removed handles are no-ops.
func (s *Store) Remove(h Handle) {
	sl := s.lookup(h)
	if sl == nil {
		return
	}

	if sl.prev != NoHandle {
		s.slot(sl.prev).next = sl.next
	} else {
		s.head = sl.next
	}
	if sl.next != NoHandle {
		s.slot(sl.next).prev = sl.prev
	} else {
		s.tail = sl.prev
	}

	*sl = slot{} // drop payload and address references
	s.free = append(s.free, h)
	s.count--
}

// ReleaseAll reclaims every record in one pass. The store is empty and
// immediately reusable afterwards; previously issued handles all go
// stale at once.
func (s *Store) ReleaseAll() {
	for h := s.head; h != NoHandle; {
		sl := s.slot(h)
		next := sl.next
		*sl = slot{}
		h = next
	}
	s.slots = s.slots[:0]
	s.free = s.free[:0]
	s.head, s.tail = NoHandle, NoHandle
	s.count = 0
}

// Each walks the records in arrival order. Returning false from fn stops
// the walk. fn must not mutate the store.
func (s *Store) Each(fn func(Handle, *Record) bool) {
	for h := s.head; h != NoHandle; {
		sl := s.slot(h)
		next := sl.next
		if !fn(h, &sl.rec) {
			return
		}
		h = next
	}
}

func (s *Store) slot(h Handle) *slot {
	return &s.slots[int(h)-1]
}

func (s *Store) lookup(h Handle) *slot {
	if h <= NoHandle || int(h) > len(s.slots) {
		return nil
	}
	sl := s.slot(h)
	if !sl.used {
		return nil
	}
	return sl
}
