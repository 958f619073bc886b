package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fetchq"
	"fetchq/internal/remote"
	"fetchq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fetchq",
	Short: "Queued fetch layer over a content-addressed object store",
	Long:  "CLI for importing directories into a local object store and fetching trees and blobs through the priority queue.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("store-dir", "", "object store directory (default: ~/.local/share/fetchq)")
	rootCmd.PersistentFlags().Int("workers", fetchq.DefaultWorkers, "fetch worker count")
	rootCmd.PersistentFlags().String("repo", "", "fetch from an OCI repository instead of the local store")

	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))
}

func initConfig() {
	viper.SetEnvPrefix("FETCHQ")
	viper.AutomaticEnv()
	viper.SetDefault("store_dir", defaultStoreDir())
	viper.SetDefault("workers", fetchq.DefaultWorkers)
}

func defaultStoreDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fetchq")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "fetchq")
	}
	return ".fetchq"
}

// openLocal opens the local object store named by configuration.
func openLocal() (*store.Local, error) {
	return store.NewLocal(viper.GetString("store_dir"))
}

// openStore builds the queued store over the configured backing store:
// an OCI repository when --repo is set, the local disk store otherwise.
func openStore() (*fetchq.Store, error) {
	var backing fetchq.BackingStore
	if repo := viper.GetString("repo"); repo != "" {
		r, err := remote.NewStore(repo, nil)
		if err != nil {
			return nil, err
		}
		backing = r
	} else {
		local, err := openLocal()
		if err != nil {
			return nil, err
		}
		backing = local
	}
	return fetchq.New(backing, fetchq.WithWorkers(viper.GetInt("workers")))
}
