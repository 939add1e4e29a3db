package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caskdb",
	Short: "A log-structured key-value store",
	Long: "caskdb is a minimal bitcask-style key-value store: values are " +
		"appended to a single growing data file and served over a small " +
		"text protocol.",
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
