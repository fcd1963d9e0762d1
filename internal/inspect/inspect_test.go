package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faultdump/record"
	"faultdump/storage"
)

func writeDump(t *testing.T, dir string, present bool) string {
	t.Helper()
	a := storage.NewRAMAdapter(0x20040000, 128)
	if present {
		buf := make([]byte, record.HeaderSize)
		record.FaultStatus{CFSR: 1 << 17, HFSR: 1 << 30}.EncodeTo(buf[:record.StatusSize])
		record.CoreFrame{PC: 0x08001234, LR: 0x08000F01}.EncodeTo(buf[record.StatusSize:])
		if err := a.Write(0x20040000, buf); err != nil {
			t.Fatal(err)
		}
		if err := a.Write(0x20040000+record.HeaderSize, []byte{1, 2, 3, 4}); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, "region.bin")
	if err := storage.SaveDump(path, a); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePlatform(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "platform.yaml")
	content := `name: test-board
region_base: 0x20040000
region_size: 128
main_stack_top: 0x20020000
task_stack_size: 1024
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunShowsRecord(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Run(Config{
		DumpFile:     writeDump(t, dir, true),
		PlatformFile: writePlatform(t, dir),
		OutputWriter: &out,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{
		"Target: test-board",
		"Region: 0x20040000, 128 bytes capacity",
		"PC  = 0x08001234",
		"INVSTATE",
		"FORCED",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunAbsentRecord(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Run(Config{
		DumpFile:     writeDump(t, dir, false),
		OutputWriter: &out,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No diagnostic record present.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunStackOnly(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Run(Config{
		DumpFile:     writeDump(t, dir, true),
		StackOnly:    true,
		OutputWriter: &out,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "01 02 03 04") {
		t.Errorf("stack dump missing captured bytes:\n%s", out.String())
	}
	if strings.Contains(out.String(), "CFSR") {
		t.Errorf("stack-only output contains status section:\n%s", out.String())
	}
}

func TestRunMissingDump(t *testing.T) {
	err := Run(Config{DumpFile: filepath.Join(t.TempDir(), "nope.bin")})
	if err == nil {
		t.Error("Run() accepted a missing dump file")
	}
}

func TestLoadPlatformHexValues(t *testing.T) {
	path := writePlatform(t, t.TempDir())
	p, err := LoadPlatform(path)
	if err != nil {
		t.Fatalf("LoadPlatform() error = %v", err)
	}
	if p.RegionBase != 0x20040000 {
		t.Errorf("RegionBase = 0x%X, want 0x20040000", p.RegionBase)
	}
	if p.MainStackTop != 0x20020000 {
		t.Errorf("MainStackTop = 0x%X, want 0x20020000", p.MainStackTop)
	}
	if p.TaskStackSize != 1024 {
		t.Errorf("TaskStackSize = %d, want 1024", p.TaskStackSize)
	}
}
