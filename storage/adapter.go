// Package storage provides the raw block storage adapters the fault capture
// subsystem persists records through. The capture engine and record store
// only see the Adapter interface; concrete adapters model the reserved RAM
// range on target, an in-memory region for tests, or a dump image pulled
// off a device.
package storage

import (
	"fmt"
)

// ErasedByte is the fill pattern of erased storage. All-ones matches the
// erased state of flash and yields the all-ones PC sentinel that marks a
// region as holding no record.
const ErasedByte = 0xFF

// Adapter is the raw erase/write/read interface over a fixed address range.
// All operations are synchronous. Addresses are absolute target addresses,
// not offsets into the region.
type Adapter interface {
	// Erase fills [addr, addr+length) with the erased pattern.
	Erase(addr, length uint32) error

	// Write stores data starting at addr.
	Write(addr uint32, data []byte) error

	// Read copies len(buf) bytes starting at addr into buf.
	Read(addr uint32, buf []byte) error
}

// RAMAdapter is an Adapter over a contiguous byte region with a fixed base
// address. On target this models the reserved RAM range outside the
// zero-initialized area; on the host it backs tests and tool workflows.
// A new adapter starts in the fully erased state.
type RAMAdapter struct {
	base uint32
	data []byte
}

// NewRAMAdapter creates an erased region of the given size at base.
func NewRAMAdapter(base, size uint32) *RAMAdapter {
	data := make([]byte, size)
	for i := range data {
		data[i] = ErasedByte
	}
	return &RAMAdapter{base: base, data: data}
}

// NewRAMAdapterFromBytes creates an adapter over an existing region image,
// e.g. a dump file loaded from a device. The adapter takes ownership of data.
func NewRAMAdapterFromBytes(base uint32, data []byte) *RAMAdapter {
	return &RAMAdapter{base: base, data: data}
}

func (a *RAMAdapter) checkRange(addr, length uint32) error {
	if addr < a.base {
		return fmt.Errorf("address 0x%X is before region base 0x%X", addr, a.base)
	}
	offset := uint64(addr) - uint64(a.base)
	if offset+uint64(length) > uint64(len(a.data)) {
		return fmt.Errorf("range 0x%X+%d exceeds region end 0x%X",
			addr, length, a.base+uint32(len(a.data)))
	}
	return nil
}

// Erase implements Adapter.Erase.
func (a *RAMAdapter) Erase(addr, length uint32) error {
	if err := a.checkRange(addr, length); err != nil {
		return err
	}
	offset := addr - a.base
	for i := offset; i < offset+length; i++ {
		a.data[i] = ErasedByte
	}
	return nil
}

// Write implements Adapter.Write.
func (a *RAMAdapter) Write(addr uint32, data []byte) error {
	if err := a.checkRange(addr, uint32(len(data))); err != nil {
		return err
	}
	copy(a.data[addr-a.base:], data)
	return nil
}

// Read implements Adapter.Read.
func (a *RAMAdapter) Read(addr uint32, buf []byte) error {
	if err := a.checkRange(addr, uint32(len(buf))); err != nil {
		return err
	}
	copy(buf, a.data[addr-a.base:])
	return nil
}

// Base returns the region's base address.
func (a *RAMAdapter) Base() uint32 {
	return a.base
}

// Size returns the region's capacity in bytes.
func (a *RAMAdapter) Size() uint32 {
	return uint32(len(a.data))
}

// Bytes exposes the backing region image, e.g. for writing a dump file.
func (a *RAMAdapter) Bytes() []byte {
	return a.data
}
