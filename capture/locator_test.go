package capture

import (
	"testing"
)

func TestLocatorStackUpperBound(t *testing.T) {
	const (
		mainTop  = 0x20020000
		taskSize = 1024
		psp      = 0x2000F000
	)

	loc := Locator{
		MainStackTop:  mainTop,
		TaskStackSize: taskSize,
		ReadPSP:       func() uint32 { return psp },
	}

	tests := []struct {
		name string
		sp   uint32
		want uint32
	}{
		{"fault on task stack", psp, psp + taskSize},
		{"fault on main stack", 0x2001F800, mainTop},
		{"main stack pointer near PSP but unequal", psp + 4, mainTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loc.StackUpperBound(tt.sp); got != tt.want {
				t.Errorf("StackUpperBound(0x%X) = 0x%X, want 0x%X", tt.sp, got, tt.want)
			}
		})
	}
}

func TestLocatorReadsLivePSP(t *testing.T) {
	// The PSP register is read at decision time, not captured earlier.
	psp := uint32(0x2000F000)
	loc := Locator{
		MainStackTop:  0x20020000,
		TaskStackSize: 512,
		ReadPSP:       func() uint32 { return psp },
	}

	sp := uint32(0x2000F000)
	if got := loc.StackUpperBound(sp); got != sp+512 {
		t.Fatalf("StackUpperBound() = 0x%X, want task bound", got)
	}

	// Same sp no longer matches once the live register moved.
	psp = 0x2000E000
	if got := loc.StackUpperBound(sp); got != 0x20020000 {
		t.Fatalf("StackUpperBound() = 0x%X, want main stack top", got)
	}
}
