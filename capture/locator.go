package capture

// Locator decides which execution context a fault interrupted and returns
// the upper bound of that context's stack.
//
// The discriminator relies on fault handlers always running on the main
// stack: entering the handler moves the main stack pointer immediately,
// while the process stack pointer register keeps the value it had at the
// instant of the fault. A faulting stack pointer equal to the live PSP
// therefore means the fault interrupted task code; anything else means it
// interrupted the privileged/main context.
type Locator struct {
	// MainStackTop is the link-time top-of-stack address of the main stack.
	MainStackTop uint32

	// TaskStackSize caps the capture when the fault interrupted a task.
	// Without OS cooperation there is no real bound available, so
	// sp + TaskStackSize is a best-effort cap, not a correct stack limit.
	TaskStackSize uint32

	// ReadPSP returns the live process stack pointer register value.
	ReadPSP func() uint32
}

// StackUpperBound returns the upper bound of the stack containing sp.
// It performs only arithmetic and a register read; it can never fault and
// has no error path, because it runs inside the fault handler.
func (l Locator) StackUpperBound(sp uint32) uint32 {
	if sp == l.ReadPSP() {
		return sp + l.TaskStackSize
	}
	return l.MainStackTop
}
