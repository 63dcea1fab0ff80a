// Package cmd implements the CLI command surface: get_app_info,
// download_shared_link, download_legacy_transfer_link, upload_files,
// request_transfers, delete_transfer, cancel_transfer,
// cancel_transfer_file and get_file_sizes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/app"
)

var (
	dbPathFlag     string
	concurrencyFlag int
	engine         *app.Engine
)

var rootCmd = &cobra.Command{
	Use:     "xfercore",
	Short:   "Transfer files to and from blob storage via pre-signed URLs",
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "get_app_info", "get_file_sizes":
			return nil
		}
		cfg := common.DefaultEngineConfig(dbPathFlag)
		if concurrencyFlag > 0 {
			cfg.Concurrency = concurrencyFlag
			cfg.QueueCapacity = concurrencyFlag
		}
		logger := common.NewStdLogger("xfercore", common.LogInfo)
		e, err := app.Start(cfg, logger)
		if err != nil {
			return err
		}
		engine = e
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if engine != nil {
			engine.Stop()
		}
	},
}

const appVersion = "1.0.0"

func init() {
	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", home+"/.xfercore/transfers.db", "path to the durable store database")
	rootCmd.PersistentFlags().IntVar(&concurrencyFlag, "concurrency", 0, "block transfer worker count (0 = XFERCORE_CONCURRENCY or default)")
}

// Execute runs the CLI, returning the exit code the caller's main
// should pass to os.Exit.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
