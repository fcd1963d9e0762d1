package storage

import (
	"fmt"
	"os"
)

// FileAdapter is a read-only Adapter over a region dump file, used by the
// inspection tooling. Write and Erase report an error; the tool mutates
// dump images through a RAMAdapter loaded with LoadDump instead.
type FileAdapter struct {
	f    *os.File
	base uint32
	size uint32
}

// OpenFile opens path as a read-only region with the given base address.
func OpenFile(path string, base uint32) (*FileAdapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat dump file: %w", err)
	}
	return &FileAdapter{f: f, base: base, size: uint32(info.Size())}, nil
}

// Read implements Adapter.Read.
func (a *FileAdapter) Read(addr uint32, buf []byte) error {
	if addr < a.base || uint64(addr)-uint64(a.base)+uint64(len(buf)) > uint64(a.size) {
		return fmt.Errorf("range 0x%X+%d outside dump region 0x%X+%d",
			addr, len(buf), a.base, a.size)
	}
	if _, err := a.f.ReadAt(buf, int64(addr-a.base)); err != nil {
		return fmt.Errorf("read dump file: %w", err)
	}
	return nil
}

// Write implements Adapter.Write. File regions are read-only.
func (a *FileAdapter) Write(addr uint32, data []byte) error {
	return fmt.Errorf("dump file region is read-only")
}

// Erase implements Adapter.Erase. File regions are read-only.
func (a *FileAdapter) Erase(addr, length uint32) error {
	return fmt.Errorf("dump file region is read-only")
}

// Base returns the region's base address.
func (a *FileAdapter) Base() uint32 {
	return a.base
}

// Size returns the dump file length in bytes.
func (a *FileAdapter) Size() uint32 {
	return a.size
}

// Close releases the underlying file.
func (a *FileAdapter) Close() error {
	return a.f.Close()
}

// LoadDump reads a region dump file into a mutable RAMAdapter.
func LoadDump(path string, base uint32) (*RAMAdapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dump file: %w", err)
	}
	return NewRAMAdapterFromBytes(base, data), nil
}

// SaveDump writes a RAMAdapter's region image back to a dump file.
func SaveDump(path string, a *RAMAdapter) error {
	if err := os.WriteFile(path, a.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save dump file: %w", err)
	}
	return nil
}
