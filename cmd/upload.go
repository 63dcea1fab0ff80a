package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/internal/manager"
)

var (
	uploadManifestFlag         string
	uploadRemoteTransferIDFlag string
)

var uploadFilesCmd = &cobra.Command{
	Use:   "upload_files",
	Short: "Upload the files named in --manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := loadManifest(uploadManifestFlag)
		if err != nil {
			return err
		}
		job := engine.Manager.SubmitUpload(manager.UploadFilesRequest{
			Name:             "upload",
			RemoteTransferID: uploadRemoteTransferIDFlag,
			Files:            files,
		})
		fmt.Printf("started transfer %s (%d files)\n", job.ID, job.NumFiles)
		return awaitTransfer(job.ID)
	},
}

func init() {
	uploadFilesCmd.Flags().StringVar(&uploadManifestFlag, "manifest", "", "path to a JSON file listing local files to upload")
	uploadFilesCmd.Flags().StringVar(&uploadRemoteTransferIDFlag, "remote-transfer-id", "", "server-side transfer id to report per-file completion against")
	_ = uploadFilesCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(uploadFilesCmd)
}
