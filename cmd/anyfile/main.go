package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFilePath string
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "anyfile",
	Short: "Read, write, list and delete resources by identifier",
	Long: "anyfile accesses a resource named by a single identifier string: " +
		"a gs://bucket/name object, an http(s) URL, or a local path.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newCatCommand())
	rootCmd.AddCommand(newWriteCommand())
	rootCmd.AddCommand(newExistsCommand())
	rootCmd.AddCommand(newDeleteCommand())
}
