package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/buildinfo"
)

var versionServer bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zbxctl version, and optionally the server's",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(buildinfo.String())

		if !versionServer {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, err := initSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		version, err := sess.client.APIVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Zabbix API %s at %s\n", version, cfg.APIURL())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionServer, "server", false, "also query and print the server API version")

	rootCmd.AddCommand(versionCmd)
}
