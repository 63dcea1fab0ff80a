package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/manager"
)

var (
	downloadManifestFlag string
	downloadTargetDir    string
	downloadShareID      string
	downloadShareCode    string
	downloadLegacyLinkID string
)

var downloadSharedLinkCmd = &cobra.Command{
	Use:   "download_shared_link",
	Short: "Download the files named in --manifest from a project share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDownload(common.DownloadTypeProjectShare)
	},
}

var downloadLegacyTransferLinkCmd = &cobra.Command{
	Use:   "download_legacy_transfer_link",
	Short: "Download the files named in --manifest from a legacy transfer link",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDownload(common.DownloadTypeLegacyTransfer)
	},
}

func runDownload(kind common.DownloadType) error {
	files, err := loadManifest(downloadManifestFlag)
	if err != nil {
		return err
	}
	for i := range files {
		files[i].LocalPath = downloadTargetDir + "/" + files[i].Name
	}
	job := engine.Manager.SubmitDownload(manager.DownloadFilesRequest{
		Name:         "download",
		DownloadType: kind,
		ShareID:      downloadShareID,
		ShareCode:    downloadShareCode,
		LegacyLinkID: downloadLegacyLinkID,
		TargetDir:    downloadTargetDir,
		Files:        files,
	})
	fmt.Printf("started transfer %s (%d files)\n", job.ID, job.NumFiles)
	return awaitTransfer(job.ID)
}

func init() {
	for _, c := range []*cobra.Command{downloadSharedLinkCmd, downloadLegacyTransferLinkCmd} {
		c.Flags().StringVar(&downloadManifestFlag, "manifest", "", "path to a JSON file listing remote files to download")
		c.Flags().StringVar(&downloadTargetDir, "target-dir", ".", "local directory to download into")
		_ = c.MarkFlagRequired("manifest")
	}
	downloadSharedLinkCmd.Flags().StringVar(&downloadShareID, "share-id", "", "project share id")
	downloadSharedLinkCmd.Flags().StringVar(&downloadShareCode, "share-code", "", "project share access code")
	downloadLegacyTransferLinkCmd.Flags().StringVar(&downloadLegacyLinkID, "link-id", "", "legacy transfer link id")
	rootCmd.AddCommand(downloadSharedLinkCmd, downloadLegacyTransferLinkCmd)
}
