package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/common"
)

var serverBaseURLFlag string

var appInfoCmd = &cobra.Command{
	Use:   "get_app_info",
	Short: "Print application name, version and configured server base URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := common.AppInfo{
			Name:          "xfercore",
			Version:       appVersion,
			ServerBaseURL: serverBaseURLFlag,
		}
		b, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	appInfoCmd.Flags().StringVar(&serverBaseURLFlag, "server-base-url", "", "base URL of the service that issued pre-signed links")
	rootCmd.AddCommand(appInfoCmd)
}
