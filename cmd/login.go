package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Zabbix server",
	Long: `Resolve credentials and verify them against the server.

Sources are tried in order: API token from the environment, API token
from the configuration, a stored session, username/password from the
environment, configuration or auth file, a legacy auth-token file, and
finally an interactive prompt. With session persistence enabled the
obtained session id is stored for later runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, err := initSession(ctx, cfg, log)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in to %s (%s credential from %s)\n",
			cfg.APIURL(), sess.cred.Type, sess.cred.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
