// Package display holds a buffer-backed surface the way a toolkit image
// view does: writers update the pixel memory through a callback and report
// the region they touched, the presenter picks up the dirty region.
package display

import (
	"image"
	"sync"

	"pixbench/pixel"
)

// Surface wraps a destination buffer. Update and Present are safe for
// concurrent use. The buffer must not be touched outside of Update.
type Surface struct {
	mu      sync.Mutex
	buf     *pixel.Buffer
	dirty   image.Rectangle
	version uint64
}

func NewSurface(buf *pixel.Buffer) *Surface {
	return &Surface{buf: buf}
}

// Update runs f with exclusive access to the buffer. f returns the region it
// modified, which is clipped to the buffer and added to the dirty region.
// An empty region marks nothing.
func (s *Surface) Update(f func(buf *pixel.Buffer) image.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := f(s.buf).Intersect(s.buf.Bounds())
	if r.Empty() {
		return
	}
	s.dirty = s.dirty.Union(r)
	s.version++
}

// MarkDirty flags a region as changed without writing to the buffer.
func (s *Surface) MarkDirty(r image.Rectangle) {
	s.Update(func(*pixel.Buffer) image.Rectangle { return r })
}

// Present returns the region modified since the last call and clears it.
func (s *Surface) Present() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.dirty
	s.dirty = image.Rectangle{}
	return r
}

// Version counts the updates that marked a non-empty region.
func (s *Surface) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns a copy of the buffer as it is now.
func (s *Surface) Snapshot() *pixel.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Clone()
}

// Encoding is the encoding the surface displays its buffer with.
func (s *Surface) Encoding() pixel.Encoding {
	return s.buf.Encoding
}

func (s *Surface) Bounds() image.Rectangle {
	return s.buf.Bounds()
}
