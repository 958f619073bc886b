package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fetchq"
)

var importCmd = &cobra.Command{
	Use:   "import <dir> [commit]",
	Short: "Import a directory into the object store",
	Long:  "Walk a directory, storing files as blobs and directories as trees. With a commit id, record the root tree under that commit.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	local, err := openLocal()
	if err != nil {
		return err
	}

	root, err := local.ImportDir(args[0])
	if err != nil {
		return err
	}

	if len(args) > 1 {
		commit, err := fetchq.ParseHash(args[1])
		if err != nil {
			return err
		}
		if err := local.PutCommit(commit, root); err != nil {
			return err
		}
	}

	fmt.Println(root)
	return nil
}
