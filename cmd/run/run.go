package run

import (
	"pduchat/internal/conf"
	"pduchat/internal/flog"

	"github.com/spf13/cobra"
)

var (
	confPath string
	server   int
	nickname string
)

func init() {
	Cmd.Flags().StringVarP(&confPath, "config", "c", "config.yaml", "Path to the configuration file.")
	Cmd.Flags().IntVarP(&server, "server", "s", 0, "Join the N-th listed server on start (1-based, 0 to pick later).")
	Cmd.Flags().StringVarP(&nickname, "nick", "n", "", "Nickname, overrides the configuration.")
}

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Join a chat server and run an interactive chat.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := conf.LoadFromFile(confPath)
		if err != nil {
			flog.Fatalf("Failed to load configuration: %v", err)
		}
		if nickname != "" {
			if err := conf.ValidateNickname(nickname); err != nil {
				flog.Fatalf("Invalid nickname: %v", err)
			}
			cfg.Nickname = nickname
		}
		flog.SetLevel(cfg.Log.Level)

		if err := startClient(cfg, server); err != nil {
			flog.Fatalf("Chat client failed: %v", err)
		}
	},
}
