// Package capture persists a diagnostic record while the system is inside
// an unrecoverable fault handler.
//
// Everything here runs in the least trusted state the system has: no heap,
// no OS services, and no way to escalate an error. The engine allocates
// all scratch memory at construction time, swallows storage failures, and
// always ends in the injected restart (or debug halt). The trap-entry
// trampoline that extracts the faulting stack pointer is platform startup
// code; it hands the resolved value to CaptureAndPersist as a plain
// argument, which keeps this package testable off target.
package capture

import (
	"faultdump/record"
	"faultdump/storage"
)

// MemoryReader reads raw target memory. On hardware this is a direct copy
// from the faulting stack; in tests it is a buffer at a chosen address.
type MemoryReader interface {
	// ReadMemory copies up to len(buf) bytes from addr into buf and
	// returns the number of bytes read.
	ReadMemory(addr uint32, buf []byte) (int, error)
}

// Config carries the environment the engine needs. All addresses and sizes
// come from the linker or platform definition and are injected here so the
// engine itself has no compile-time platform knowledge.
type Config struct {
	// Region is the persistent storage the record is written through.
	Region storage.Adapter
	// RegionBase and RegionSize declare the persistent region's bounds.
	RegionBase uint32
	RegionSize uint32

	// MainStackTop is the link-time top of the main stack.
	MainStackTop uint32
	// TaskStackSize caps task-context captures, see Locator.TaskStackSize.
	TaskStackSize uint32

	// ReadPSP returns the live process stack pointer register value.
	ReadPSP func() uint32
	// Status snapshots the hardware fault status registers.
	Status func() record.FaultStatus
	// Mem reads the faulting context's memory.
	Mem MemoryReader

	// Restart forces a full system reset. It must not return.
	Restart func()
	// Halt, when non-nil, stops execution for attached-debugger inspection
	// instead of restarting. Diagnostic builds set this.
	Halt func()
}

// Engine writes diagnostic records into the persistent region.
type Engine struct {
	cfg Config
	loc Locator

	// stackBuf is sized at construction so the fault path never allocates.
	stackBuf []byte
}

// New builds an Engine. This is the only place the engine allocates.
func New(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		loc: Locator{
			MainStackTop:  cfg.MainStackTop,
			TaskStackSize: cfg.TaskStackSize,
			ReadPSP:       cfg.ReadPSP,
		},
		stackBuf: make([]byte, cfg.RegionSize),
	}
}

// CaptureAndPersist builds the diagnostic record for the fault whose
// exception frame sits at faultSP and writes it to the persistent region,
// then restarts the system (or halts for a debugger). On hardware it never
// returns; the faulting context cannot safely resume. Storage errors are
// swallowed: there is no escalation path inside a fault handler, and the
// restart must proceed regardless of how much of the record survived.
func (e *Engine) CaptureAndPersist(faultSP uint32) {
	// Snapshot the fault status registers before anything else touches
	// shared hardware state.
	status := e.cfg.Status()

	// Full-capacity erase: no stale tail bytes from a shorter previous
	// record, and the sentinel pattern survives any partial failure below.
	_ = e.cfg.Region.Erase(e.cfg.RegionBase, e.cfg.RegionSize)

	// Header: status block, then the eight words the hardware pushed at
	// faultSP, as one contiguous write.
	var header [record.HeaderSize]byte
	status.EncodeTo(header[:record.StatusSize])
	n, err := e.cfg.Mem.ReadMemory(faultSP, header[record.StatusSize:])
	if err != nil || n < record.FrameSize {
		// Unreadable frame. Persist the status block alone; the erased
		// PC bytes keep the record reading as absent.
		_ = e.cfg.Region.Write(e.cfg.RegionBase, header[:clampU32(record.StatusSize, e.cfg.RegionSize)])
		e.finish()
		return
	}
	headerLen := clampU32(record.HeaderSize, e.cfg.RegionSize)
	_ = e.cfg.Region.Write(e.cfg.RegionBase, header[:headerLen])

	// Stack tail: from faultSP up toward the context's stack top, clipped
	// to the capacity left after the header. A bound below faultSP is
	// treated as corrupt and captures nothing rather than faulting again.
	var stackSize uint32
	if upper := e.loc.StackUpperBound(faultSP); upper > faultSP {
		stackSize = upper - faultSP
	}
	if left := e.cfg.RegionSize - headerLen; stackSize > left {
		stackSize = left
	}
	if stackSize > 0 {
		n, err := e.cfg.Mem.ReadMemory(faultSP, e.stackBuf[:stackSize])
		if err == nil && n > 0 {
			_ = e.cfg.Region.Write(e.cfg.RegionBase+headerLen, e.stackBuf[:n])
		}
	}

	e.finish()
}

func (e *Engine) finish() {
	if e.cfg.Halt != nil {
		e.cfg.Halt()
		return
	}
	e.cfg.Restart()
}

func clampU32(v, max uint32) uint32 {
	if v > max {
		return max
	}
	return v
}
