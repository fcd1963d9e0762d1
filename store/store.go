// Package store retrieves and erases the persisted diagnostic record after
// a reboot. Retrieval is intentionally simple: the only outcome a consumer
// can act on is "a usable record is present" or not, so storage read
// failures and the erased sentinel both normalize to absence.
package store

import (
	"faultdump/record"
	"faultdump/storage"
)

// Store reads back the single-slot persistent region.
type Store struct {
	adapter storage.Adapter
	base    uint32
	size    uint32
}

// New creates a Store over the region at base with the given capacity.
func New(adapter storage.Adapter, base, size uint32) *Store {
	return &Store{adapter: adapter, base: base, size: size}
}

// Read copies up to min(len(buf), capacity) bytes of the region into buf
// and reports whether it holds a record. A storage read failure, a buffer
// too small to reach the PC field, or a PC reading as the erased sentinel
// all report false.
func (s *Store) Read(buf []byte) bool {
	n := uint32(len(buf))
	if n > s.size {
		n = s.size
	}
	if err := s.adapter.Read(s.base, buf[:n]); err != nil {
		return false
	}
	return record.Present(buf[:n])
}

// Erase restores the full region capacity to the erased pattern. It is
// idempotent and safe to call when no record is present.
func (s *Store) Erase() {
	_ = s.adapter.Erase(s.base, s.size)
}
