package list

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"pduchat/internal/conf"
	"pduchat/internal/directory"
	"pduchat/internal/flog"
	"syscall"

	"github.com/spf13/cobra"
)

var confPath string

func init() {
	Cmd.Flags().StringVarP(&confPath, "config", "c", "config.yaml", "Path to the configuration file.")
}

var Cmd = &cobra.Command{
	Use:   "list",
	Short: "Ask the directory servers for the chat server list and print it.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := conf.LoadFromFile(confPath)
		if err != nil {
			flog.Fatalf("Failed to load configuration: %v", err)
		}
		flog.SetLevel(cfg.Log.Level)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		entries, err := directory.New(&cfg.Directory).List(ctx)
		if err != nil {
			flog.Fatalf("Server discovery failed: %v", err)
		}
		printEntries(os.Stdout, entries)
	},
}

func printEntries(w io.Writer, entries []directory.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No chat servers available.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%3d) %s (%s)\n", i+1, e.Display(), e.Address())
	}
}
