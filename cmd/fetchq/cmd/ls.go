package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fetchq"
)

var lsCmd = &cobra.Command{
	Use:   "ls <commit> [path]",
	Short: "List a tree within a commit",
	Long:  "Resolve a commit to its root tree and list the entries at the given path.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) (err error) {
	commit, err := fetchq.ParseHash(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx := cmd.Context()
	tree, err := st.FetchTreeForCommit(commit).Wait(ctx)
	if err != nil {
		return err
	}

	if len(args) > 1 {
		for _, part := range strings.Split(strings.Trim(args[1], "/"), "/") {
			if part == "" {
				continue
			}
			entry, ok := tree.Lookup(part)
			if !ok {
				return fmt.Errorf("%w: %s", fetchq.ErrNotFound, args[1])
			}
			if !entry.IsDir {
				return fmt.Errorf("%s: not a directory", args[1])
			}
			tree, err = st.FetchTree(entry.Hash, fetchq.PriorityHigh).Wait(ctx)
			if err != nil {
				return err
			}
		}
	}

	for _, e := range tree.Entries {
		kind := "blob"
		if e.IsDir {
			kind = "tree"
		}
		fmt.Printf("%s\t%s\t%s\n", kind, e.Hash, e.Name)
	}
	return nil
}
