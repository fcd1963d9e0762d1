// Package printer renders decoded diagnostic records as text for the
// inspection tooling.
package printer

import (
	"fmt"
	"strings"

	"faultdump/record"
)

// FormatRecord renders the full record: core registers, fault status with
// decoded bit names, fault addresses where the status says they are valid,
// and the captured stack as a hex dump.
func FormatRecord(rec *record.Record) string {
	var sb strings.Builder

	sb.WriteString("Core registers (exception frame):\n")
	sb.WriteString(formatFrame(rec.Frame))

	sb.WriteString("Fault status:\n")
	sb.WriteString(formatStatus(rec.Status))

	sb.WriteString(fmt.Sprintf("Captured stack: %d bytes\n", len(rec.Stack)))
	sb.WriteString(FormatStack(rec.Stack))

	return sb.String()
}

func formatFrame(f record.CoreFrame) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  R0  = 0x%08X  R1  = 0x%08X  R2  = 0x%08X  R3  = 0x%08X\n",
		f.R0, f.R1, f.R2, f.R3))
	sb.WriteString(fmt.Sprintf("  R12 = 0x%08X  LR  = 0x%08X  PC  = 0x%08X  PSR = 0x%08X\n",
		f.R12, f.LR, f.PC, f.PSR))
	return sb.String()
}

func formatStatus(s record.FaultStatus) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  CFSR = 0x%08X %s\n", s.CFSR, flagList(cfsrFlags(s.CFSR))))
	sb.WriteString(fmt.Sprintf("  HFSR = 0x%08X %s\n", s.HFSR, flagList(hfsrFlags(s.HFSR))))
	sb.WriteString(fmt.Sprintf("  DFSR = 0x%08X %s\n", s.DFSR, flagList(dfsrFlags(s.DFSR))))

	// The fault address registers only hold real addresses when the
	// corresponding VALID bit is set.
	if s.CFSR&cfsrMMARValid != 0 {
		sb.WriteString(fmt.Sprintf("  MemManage fault address = 0x%08X\n", s.MMFAR))
	}
	if s.CFSR&cfsrBFARValid != 0 {
		sb.WriteString(fmt.Sprintf("  BusFault address        = 0x%08X\n", s.BFAR))
	}
	if s.AFSR != 0 {
		sb.WriteString(fmt.Sprintf("  AFSR = 0x%08X\n", s.AFSR))
	}
	return sb.String()
}

func flagList(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, " ") + "]"
}

// CFSR bit positions. The low byte is MemManage status, the next byte
// BusFault status, the upper half UsageFault status.
const (
	cfsrMMARValid = 1 << 7
	cfsrBFARValid = 1 << 15
)

var cfsrBits = []struct {
	mask uint32
	name string
}{
	{1 << 0, "IACCVIOL"},
	{1 << 1, "DACCVIOL"},
	{1 << 3, "MUNSTKERR"},
	{1 << 4, "MSTKERR"},
	{1 << 5, "MLSPERR"},
	{cfsrMMARValid, "MMARVALID"},
	{1 << 8, "IBUSERR"},
	{1 << 9, "PRECISERR"},
	{1 << 10, "IMPRECISERR"},
	{1 << 11, "UNSTKERR"},
	{1 << 12, "STKERR"},
	{1 << 13, "LSPERR"},
	{cfsrBFARValid, "BFARVALID"},
	{1 << 16, "UNDEFINSTR"},
	{1 << 17, "INVSTATE"},
	{1 << 18, "INVPC"},
	{1 << 19, "NOCP"},
	{1 << 24, "UNALIGNED"},
	{1 << 25, "DIVBYZERO"},
}

func cfsrFlags(cfsr uint32) []string {
	var flags []string
	for _, b := range cfsrBits {
		if cfsr&b.mask != 0 {
			flags = append(flags, b.name)
		}
	}
	return flags
}

var hfsrBits = []struct {
	mask uint32
	name string
}{
	{1 << 1, "VECTTBL"},
	{1 << 30, "FORCED"},
	{1 << 31, "DEBUGEVT"},
}

func hfsrFlags(hfsr uint32) []string {
	var flags []string
	for _, b := range hfsrBits {
		if hfsr&b.mask != 0 {
			flags = append(flags, b.name)
		}
	}
	return flags
}

var dfsrBits = []struct {
	mask uint32
	name string
}{
	{1 << 0, "HALTED"},
	{1 << 1, "BKPT"},
	{1 << 2, "DWTTRAP"},
	{1 << 3, "VCATCH"},
	{1 << 4, "EXTERNAL"},
}

func dfsrFlags(dfsr uint32) []string {
	var flags []string
	for _, b := range dfsrBits {
		if dfsr&b.mask != 0 {
			flags = append(flags, b.name)
		}
	}
	return flags
}

// FormatStack renders stack bytes as an offset-annotated hex dump,
// 16 bytes per line with an ASCII gutter.
func FormatStack(stack []byte) string {
	var sb strings.Builder
	for off := 0; off < len(stack); off += 16 {
		end := off + 16
		if end > len(stack) {
			end = len(stack)
		}
		line := stack[off:end]

		sb.WriteString(fmt.Sprintf("  +0x%04X  ", off))
		for i := 0; i < 16; i++ {
			if i < len(line) {
				sb.WriteString(fmt.Sprintf("%02X ", line[i]))
			} else {
				sb.WriteString("   ")
			}
			if i == 7 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7F {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
