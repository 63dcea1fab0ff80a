package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/common"
)

var fileSizesCmd = &cobra.Command{
	Use:   "get_file_sizes [paths...]",
	Short: "Stat local files without starting a transfer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := common.StatFiles(args)
		b, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fileSizesCmd)
}
