//go:build cortexm

// Package cortexm binds the capture engine to real Cortex-M hardware: the
// system control block fault status registers, the AIRCR reset request,
// and the hard-fault dispatch point the trap trampoline jumps to.
//
// The trampoline itself is platform startup assembly. It cannot be written
// in Go: the handler is entered by hardware with no call frame, and must
// test EXC_RETURN bit 2 to pick MSP or PSP before anything clobbers them:
//
//	tst lr, #4
//	ite eq
//	mrseq r0, msp
//	mrsne r0, psp
//	b     HardFault_Dispatch
//
// Everything after that register shuffle lives here and in the capture
// package, with the resolved stack pointer as a plain argument.
package cortexm

import (
	"unsafe"

	"faultdump/capture"
	"faultdump/record"
)

// System control block register addresses. CFSR through AFSR are
// contiguous, in the order the capture record persists them.
const (
	scbCFSR  = 0xE000ED28
	scbHFSR  = 0xE000ED2C
	scbDFSR  = 0xE000ED30
	scbMMFAR = 0xE000ED34
	scbBFAR  = 0xE000ED38
	scbAFSR  = 0xE000ED3C

	scbAIRCR = 0xE000ED0C

	aircrVectKey     = 0x5FA << 16
	aircrSysResetReq = 1 << 2
)

func reg(addr uintptr) *uint32 {
	return (*uint32)(unsafe.Pointer(addr))
}

// ReadFaultStatus snapshots the six SCB fault status and address registers.
//
//go:nosplit
func ReadFaultStatus() record.FaultStatus {
	return record.FaultStatus{
		CFSR:  *reg(scbCFSR),
		HFSR:  *reg(scbHFSR),
		DFSR:  *reg(scbDFSR),
		MMFAR: *reg(scbMMFAR),
		BFAR:  *reg(scbBFAR),
		AFSR:  *reg(scbAFSR),
	}
}

// SystemReset requests a full system reset through AIRCR and spins until
// the reset takes effect. It never returns.
//
//go:nosplit
func SystemReset() {
	*reg(scbAIRCR) = aircrVectKey | aircrSysResetReq
	for {
	}
}

// ReadPSP returns the live process stack pointer. MRS is not expressible
// in Go, so the platform startup assembly installs the real register read
// here before interrupts are enabled.
var ReadPSP func() uint32

// directMemory reads target RAM with a straight byte copy. The capture
// engine only asks it for the exception frame and the faulting stack,
// both of which the fault priority rules guarantee are ordinary memory.
type directMemory struct{}

//go:nosplit
func (directMemory) ReadMemory(addr uint32, buf []byte) (int, error) {
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(buf))
	copy(buf, src)
	return len(buf), nil
}

// DirectMemory returns a capture.MemoryReader over the live address space.
func DirectMemory() capture.MemoryReader {
	return directMemory{}
}

// engine is installed by Init and invoked by the trap trampoline.
var engine *capture.Engine

// Init installs the capture engine the hard-fault path will use. Call it
// once during early boot, before faults can fire.
func Init(e *capture.Engine) {
	engine = e
}

// HandleFault is the Go-side hard-fault entry. The trampoline passes the
// stack pointer that held the exception frame. If Init has not run yet the
// only safe action is an immediate reset.
//
//go:export HardFault_Dispatch
//go:nosplit
func HandleFault(sp uint32) {
	if engine == nil {
		SystemReset()
	}
	engine.CaptureAndPersist(sp)
}
