package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fetchq"
)

var catCmd = &cobra.Command{
	Use:   "cat <hash>",
	Short: "Print a blob's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) (err error) {
	h, err := fetchq.ParseHash(args[0])
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

	blob, err := st.FetchBlob(h, fetchq.PriorityHigh).Wait(cmd.Context())
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(blob.Data)
	return err
}
