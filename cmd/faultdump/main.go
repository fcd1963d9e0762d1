// Command faultdump inspects persistent-region dump images pulled off a
// device after a hard fault: it decodes the saved diagnostic record, dumps
// the captured stack, and can restore an image to the erased state.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"faultdump/internal/inspect"
	"faultdump/storage"
	"faultdump/store"
)

var (
	logger *zap.Logger

	verbose      bool
	platformFile string
)

var rootCmd = &cobra.Command{
	Use:   "faultdump",
	Short: "Decode and manage hard-fault diagnostic dumps",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <dumpfile>",
	Short: "Decode and print the diagnostic record in a dump image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("decoding dump", zap.String("file", args[0]))
		return inspect.Run(inspect.Config{
			DumpFile:     args[0],
			PlatformFile: platformFile,
			OutputWriter: cmd.OutOrStdout(),
		})
	},
}

var stackCmd = &cobra.Command{
	Use:   "stack <dumpfile>",
	Short: "Print only the captured stack bytes as a hex dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect.Run(inspect.Config{
			DumpFile:     args[0],
			PlatformFile: platformFile,
			StackOnly:    true,
			OutputWriter: cmd.OutOrStdout(),
		})
	},
}

var eraseCmd = &cobra.Command{
	Use:   "erase <dumpfile>",
	Short: "Overwrite a dump image with the erased pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := storage.LoadDump(args[0], 0)
		if err != nil {
			return err
		}
		st := store.New(region, region.Base(), region.Size())
		st.Erase()
		if err := storage.SaveDump(args[0], region); err != nil {
			return err
		}
		logger.Info("dump image erased",
			zap.String("file", args[0]),
			zap.Uint32("bytes", region.Size()))
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&platformFile, "platform", "", "platform description YAML file")
	rootCmd.AddCommand(showCmd, stackCmd, eraseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
