package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the Zabbix session and forget it",
	Long: `Log out from the server and drop any persisted session.

API-token credentials are not server-side sessions; logging out with a
token only clears local state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, err := initSession(ctx, cfg, log)
		if err != nil {
			return err
		}

		if err := sess.client.Logout(ctx); err != nil {
			return err
		}

		if sess.cred.Type != auth.TypeAPIToken && sess.cred.Username != "" {
			if sess.store.Remove(cfg.APIURL(), sess.cred.Username) {
				if err := sess.store.Save(); err != nil {
					return err
				}
			}
		}

		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
