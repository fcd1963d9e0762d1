package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRAMAdapterStartsErased(t *testing.T) {
	a := NewRAMAdapter(0x20000000, 16)
	buf := make([]byte, 16)
	if err := a.Read(0x20000000, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i, b := range buf {
		if b != ErasedByte {
			t.Fatalf("byte %d = 0x%02X, want erased pattern 0x%02X", i, b, ErasedByte)
		}
	}
}

func TestRAMAdapterWriteRead(t *testing.T) {
	a := NewRAMAdapter(0x1000, 32)

	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := a.Write(0x1004, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	buf := make([]byte, 4)
	if err := a.Read(0x1004, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(buf, data) {
		t.Errorf("Read() = % X, want % X", buf, data)
	}
}

func TestRAMAdapterEraseIsIdempotent(t *testing.T) {
	a := NewRAMAdapter(0x1000, 8)
	if err := a.Write(0x1000, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := a.Erase(0x1000, 8); err != nil {
			t.Fatalf("Erase() #%d error = %v", i+1, err)
		}
	}

	buf := make([]byte, 8)
	if err := a.Read(0x1000, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i, b := range buf {
		if b != ErasedByte {
			t.Errorf("byte %d = 0x%02X after erase, want 0x%02X", i, b, ErasedByte)
		}
	}
}

func TestRAMAdapterRangeChecks(t *testing.T) {
	a := NewRAMAdapter(0x1000, 16)

	tests := []struct {
		name string
		op   func() error
	}{
		{"write before base", func() error { return a.Write(0x0FFF, []byte{0}) }},
		{"write past end", func() error { return a.Write(0x100F, []byte{0, 0}) }},
		{"read past end", func() error { return a.Read(0x1010, make([]byte, 1)) }},
		{"erase past end", func() error { return a.Erase(0x1000, 17) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err == nil {
				t.Error("expected range error, got nil")
			}
		})
	}
}

func TestFileAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	image := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}
	if err := os.WriteFile(path, image, 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := OpenFile(path, 0x20000000)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer a.Close()

	if a.Size() != 8 {
		t.Errorf("Size() = %d, want 8", a.Size())
	}

	buf := make([]byte, 4)
	if err := a.Read(0x20000002, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0x30, 0x40, 0x50, 0x60}) {
		t.Errorf("Read() = % X", buf)
	}

	if err := a.Read(0x20000006, make([]byte, 4)); err == nil {
		t.Error("Read() past end of file succeeded")
	}
	if err := a.Write(0x20000000, []byte{0}); err == nil {
		t.Error("Write() on a file region succeeded")
	}
	if err := a.Erase(0x20000000, 8); err == nil {
		t.Error("Erase() on a file region succeeded")
	}
}

func TestLoadSaveDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := LoadDump(path, 0x1000)
	if err != nil {
		t.Fatalf("LoadDump() error = %v", err)
	}
	if err := a.Erase(0x1000, a.Size()); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if err := SaveDump(path, a); err != nil {
		t.Fatalf("SaveDump() error = %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("saved image = % X, want all 0xFF", out)
	}
}
