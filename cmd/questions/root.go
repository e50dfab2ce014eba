package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questions",
	Short: "Questions runs scripted appeal interviews over modmail threads",
	Long: `Questions interviews the recipient of a freshly opened modmail thread
with a configured list of questions, posts a pinned summary of the answers,
and moves the thread to its destination category.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the service configuration file")
}
