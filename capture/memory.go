package capture

import (
	"fmt"
)

// MemoryBuffer implements MemoryReader for a single contiguous region of
// memory. Tests and host-side replay use it to stand in for the faulting
// context's RAM.
type MemoryBuffer struct {
	// BaseAddr is the starting address of this memory region
	BaseAddr uint32
	// Data holds the actual memory contents
	Data []byte
}

// NewMemoryBuffer creates a new memory buffer for the given address range.
func NewMemoryBuffer(baseAddr uint32, data []byte) *MemoryBuffer {
	return &MemoryBuffer{
		BaseAddr: baseAddr,
		Data:     data,
	}
}

// ReadMemory implements MemoryReader.ReadMemory. Reads past the end of the
// region are truncated to the available bytes.
func (mb *MemoryBuffer) ReadMemory(addr uint32, buf []byte) (int, error) {
	if addr < mb.BaseAddr {
		return 0, fmt.Errorf("address 0x%X is before buffer base 0x%X", addr, mb.BaseAddr)
	}

	offset := uint64(addr) - uint64(mb.BaseAddr)
	if offset >= uint64(len(mb.Data)) {
		return 0, fmt.Errorf("address 0x%X is beyond buffer range (0x%X - 0x%X)",
			addr, mb.BaseAddr, mb.BaseAddr+uint32(len(mb.Data)))
	}

	available := uint64(len(mb.Data)) - offset
	toRead := uint64(len(buf))
	if toRead > available {
		toRead = available
	}

	copy(buf, mb.Data[offset:offset+toRead])
	return int(toRead), nil
}
