package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docreview/internal/common"
)

var (
	configPath string
	verbose    bool

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docreview",
	Short: "Compare a term sheet and an investment agreement",
	Long: `Extracts deal terms and clauses from two documents, OCRing scanned
pages when the native text is unusable, and reports where they disagree.
Output is masked unless --unmasked is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if verbose || os.Getenv("LOG_LEVEL") == "debug" {
			level = slog.LevelDebug
		}
		// messages with attributes but no time/level
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
					return slog.Attr{}
				}
				return a
			},
		}))
		slog.SetDefault(logger)

		var err error
		cfg, err = common.LoadConfig()
		if err != nil {
			return err
		}
		if configPath != "" {
			if err := cfg.ApplyFile(configPath); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML file overriding thresholds and defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
