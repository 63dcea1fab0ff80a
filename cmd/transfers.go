package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/manager"
)

var getTransfersCmd = &cobra.Command{
	Use:   "request_transfers",
	Short: "Print a snapshot of every known transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine.Frontend.Submit(manager.GetTransfersRequest{})
		for ev := range engine.Bus.UIEvents() {
			if snap, ok := ev.(common.Transfers); ok {
				b, err := json.MarshalIndent(snap.Snapshot, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}
		}
		return fmt.Errorf("event bus closed before a snapshot arrived")
	},
}

var deleteTransferCmd = &cobra.Command{
	Use:   "delete_transfer [transfer-id]",
	Short: "Remove a transfer from memory and the durable store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine.Frontend.Submit(manager.DeleteTransferRequest{TransferID: args[0]})
		return nil
	},
}

var cancelTransferCmd = &cobra.Command{
	Use:   "cancel_transfer [transfer-id]",
	Short: "Cancel every file of a transfer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine.Frontend.Submit(manager.CancelTransferRequest{TransferID: args[0]})
		return nil
	},
}

var cancelTransferFileCmd = &cobra.Command{
	Use:   "cancel_transfer_file [transfer-id] [file-id]",
	Short: "Cancel one file of a transfer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine.Frontend.Submit(manager.CancelTransferFileRequest{TransferID: args[0], FileID: args[1]})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getTransfersCmd, deleteTransferCmd, cancelTransferCmd, cancelTransferFileCmd)
}
