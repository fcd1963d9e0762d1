// Package record defines the diagnostic record layout persisted by the
// fault capture engine and decoded by post-reboot consumers.
//
// The on-storage format is fixed and packed, three parts in order:
//
//	offset  0: fault status block, six little-endian 32-bit words
//	offset 24: core register block, eight little-endian 32-bit words
//	offset 56: raw bytes of the faulting stack, up to region capacity
//
// Serialization is explicit little-endian so the layout does not depend on
// host struct packing rules.
package record

import (
	"encoding/binary"
	"fmt"
)

const (
	// StatusSize is the byte size of the fault status block.
	StatusSize = 6 * 4
	// FrameSize is the byte size of the core register block.
	FrameSize = 8 * 4
	// HeaderSize is the fixed record size before the stack tail.
	HeaderSize = StatusSize + FrameSize

	// pcOffset is the byte offset of the PC field within the record.
	// R0-R3, R12 and LR precede it in the exception frame.
	pcOffset = StatusSize + 6*4
)

// ErasedPC is the PC field value of freshly erased storage. A captured
// program counter can never legally hold this value on Thumb-only targets,
// so it doubles as the record-absent sentinel.
const ErasedPC = 0xFFFFFFFF

// FaultStatus holds the system control block fault status and fault address
// registers, copied verbatim at the instant of capture. The field order
// matches the register order in the hardware register block.
type FaultStatus struct {
	CFSR  uint32 // Configurable Fault Status
	HFSR  uint32 // HardFault Status
	DFSR  uint32 // Debug Fault Status
	MMFAR uint32 // MemManage Fault Address
	BFAR  uint32 // BusFault Address
	AFSR  uint32 // Auxiliary Fault Status
}

// CoreFrame holds the eight registers the hardware pushes onto the active
// stack on exception entry, in push order.
type CoreFrame struct {
	R0  uint32
	R1  uint32
	R2  uint32
	R3  uint32
	R12 uint32
	LR  uint32
	PC  uint32
	PSR uint32
}

// Record is a decoded diagnostic record: the fixed header plus whatever
// slice of the faulting stack fit into the persistent region.
type Record struct {
	Status FaultStatus
	Frame  CoreFrame
	Stack  []byte
}

// Present reports whether the record holds a real capture rather than
// erased storage.
func (r *Record) Present() bool {
	return r.Frame.PC != ErasedPC
}

// EncodeTo writes the status block into buf at its fixed offsets.
// buf must be at least StatusSize bytes.
func (s FaultStatus) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], s.CFSR)
	binary.LittleEndian.PutUint32(buf[4:], s.HFSR)
	binary.LittleEndian.PutUint32(buf[8:], s.DFSR)
	binary.LittleEndian.PutUint32(buf[12:], s.MMFAR)
	binary.LittleEndian.PutUint32(buf[16:], s.BFAR)
	binary.LittleEndian.PutUint32(buf[20:], s.AFSR)
}

// EncodeTo writes the core register block into buf in exception frame
// order. buf must be at least FrameSize bytes.
func (f CoreFrame) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], f.R0)
	binary.LittleEndian.PutUint32(buf[4:], f.R1)
	binary.LittleEndian.PutUint32(buf[8:], f.R2)
	binary.LittleEndian.PutUint32(buf[12:], f.R3)
	binary.LittleEndian.PutUint32(buf[16:], f.R12)
	binary.LittleEndian.PutUint32(buf[20:], f.LR)
	binary.LittleEndian.PutUint32(buf[24:], f.PC)
	binary.LittleEndian.PutUint32(buf[28:], f.PSR)
}

func decodeStatus(data []byte) FaultStatus {
	return FaultStatus{
		CFSR:  binary.LittleEndian.Uint32(data[0:]),
		HFSR:  binary.LittleEndian.Uint32(data[4:]),
		DFSR:  binary.LittleEndian.Uint32(data[8:]),
		MMFAR: binary.LittleEndian.Uint32(data[12:]),
		BFAR:  binary.LittleEndian.Uint32(data[16:]),
		AFSR:  binary.LittleEndian.Uint32(data[20:]),
	}
}

func decodeFrame(data []byte) CoreFrame {
	return CoreFrame{
		R0:  binary.LittleEndian.Uint32(data[0:]),
		R1:  binary.LittleEndian.Uint32(data[4:]),
		R2:  binary.LittleEndian.Uint32(data[8:]),
		R3:  binary.LittleEndian.Uint32(data[12:]),
		R12: binary.LittleEndian.Uint32(data[16:]),
		LR:  binary.LittleEndian.Uint32(data[20:]),
		PC:  binary.LittleEndian.Uint32(data[24:]),
		PSR: binary.LittleEndian.Uint32(data[28:]),
	}
}

// Decode parses a raw persistent region image into a Record. The stack
// tail is everything after the fixed header; callers that read a region
// larger than the written record see trailing erased bytes in the tail.
func Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("record too short: %d bytes, need at least %d", len(data), HeaderSize)
	}
	r := &Record{
		Status: decodeStatus(data[0:StatusSize]),
		Frame:  decodeFrame(data[StatusSize:HeaderSize]),
	}
	if len(data) > HeaderSize {
		r.Stack = append([]byte(nil), data[HeaderSize:]...)
	}
	return r, nil
}

// Present inspects a raw region image without fully decoding it. It
// reports false when the image is too short to contain the PC field or
// when that field reads as the erased sentinel.
func Present(data []byte) bool {
	if len(data) < pcOffset+4 {
		return false
	}
	return binary.LittleEndian.Uint32(data[pcOffset:]) != ErasedPC
}
