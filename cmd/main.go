package main

import (
	"os"
	"pduchat/cmd/list"
	"pduchat/cmd/run"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pduchat",
	Short: "Chat client for PDU directory and chat servers.",
}

func init() {
	rootCmd.AddCommand(run.Cmd)
	rootCmd.AddCommand(list.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
