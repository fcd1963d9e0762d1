// Package inspect implements the dump inspection pipeline behind the
// faultdump CLI: load a persistent region image, check it for a record,
// decode it and render it.
package inspect

import (
	"fmt"
	"io"
	"os"

	"faultdump/printer"
	"faultdump/record"
	"faultdump/storage"
	"faultdump/store"
)

// Config mirrors the command line arguments of the faultdump tool.
type Config struct {
	// DumpFile is the region image pulled off the device.
	DumpFile string
	// PlatformFile optionally names a platform description YAML file.
	PlatformFile string
	// StackOnly restricts output to the captured stack hex dump.
	StackOnly bool
	// OutputWriter receives the rendered record. Defaults to os.Stdout.
	OutputWriter io.Writer
}

// Run loads the dump named by cfg, decodes it and writes the report.
// A dump holding no record is not an error: the tool reports the absence
// and returns nil, matching the consumer contract of the record store.
func Run(cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}

	var plat *Platform
	if cfg.PlatformFile != "" {
		p, err := LoadPlatform(cfg.PlatformFile)
		if err != nil {
			return err
		}
		plat = p
	}

	base := uint32(0)
	if plat != nil {
		base = plat.RegionBase
	}

	region, err := storage.OpenFile(cfg.DumpFile, base)
	if err != nil {
		return err
	}
	defer region.Close()

	if plat != nil && plat.RegionSize != 0 && region.Size() != plat.RegionSize {
		fmt.Fprintf(w, "warning: dump is %d bytes but platform declares a %d byte region\n",
			region.Size(), plat.RegionSize)
	}

	st := store.New(region, base, region.Size())
	buf := make([]byte, region.Size())
	if !st.Read(buf) {
		fmt.Fprintln(w, "No diagnostic record present.")
		return nil
	}

	rec, err := record.Decode(buf)
	if err != nil {
		return fmt.Errorf("decode record: %v", err)
	}

	if cfg.StackOnly {
		fmt.Fprint(w, printer.FormatStack(rec.Stack))
		return nil
	}

	if plat != nil {
		printHeaderInfo(w, plat)
	}
	fmt.Fprint(w, printer.FormatRecord(rec))
	return nil
}

func printHeaderInfo(w io.Writer, plat *Platform) {
	if plat.Name != "" {
		fmt.Fprintf(w, "Target: %s\n", plat.Name)
	}
	fmt.Fprintf(w, "Region: 0x%08X, %d bytes capacity\n", plat.RegionBase, plat.RegionSize)
	if plat.MainStackTop != 0 {
		fmt.Fprintf(w, "Main stack top: 0x%08X\n", plat.MainStackTop)
	}
}
