package cmd

import (
	"fmt"

	"github.com/quickbyte/xfercore/common"
)

// awaitTransfer blocks until transferID reaches a terminal status,
// printing each TransferStatusUpdate for it along the way, and returns
// an error if it finished as anything other than Completed.
func awaitTransfer(transferID string) error {
	for ev := range engine.Bus.UIEvents() {
		switch e := ev.(type) {
		case common.TransferStatusUpdate:
			if e.TransferID != transferID {
				continue
			}
			fmt.Printf("transfer %s: %s\n", transferID, e.Status)
			if e.Status.IsTerminal() {
				if e.Status != common.StatusCompleted {
					return fmt.Errorf("transfer %s finished as %s: %s", transferID, e.Status, e.Error)
				}
				return nil
			}
		}
	}
	return fmt.Errorf("event bus closed before transfer %s finished", transferID)
}
