package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/zabbix"
)

var (
	hostListGroups    bool
	hostListTemplates bool
	hostListMonitored bool
	hostListLimit     int
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Inspect Zabbix hosts",
}

var hostListCmd = &cobra.Command{
	Use:   "list [name-or-id]...",
	Short: "List hosts, optionally filtered by name or id",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, err := initSession(ctx, cfg, log)
		if err != nil {
			return err
		}

		hosts, err := sess.client.GetHosts(ctx, zabbix.HostGetOptions{
			NamesOrIDs:      args,
			SelectGroups:    hostListGroups,
			SelectTemplates: hostListTemplates,
			SelectProxy:     true,
			MonitoredOnly:   hostListMonitored,
			Limit:           hostListLimit,
		})
		if err != nil {
			return err
		}

		for _, h := range hosts {
			line := fmt.Sprintf("%s\t%s", h.HostID, h.Host)
			if h.Name != "" && h.Name != h.Host {
				line += fmt.Sprintf("\t(%s)", h.Name)
			}
			if h.ProxyID != "" {
				line += fmt.Sprintf("\tproxy=%s", h.ProxyID)
			}
			for _, g := range h.Groups {
				line += fmt.Sprintf("\tgroup=%s", g.Name)
			}
			for _, t := range h.Templates {
				line += fmt.Sprintf("\ttemplate=%s", t.Host)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	hostListCmd.Flags().BoolVar(&hostListGroups, "groups", false, "include host group names")
	hostListCmd.Flags().BoolVar(&hostListTemplates, "templates", false, "include linked template names")
	hostListCmd.Flags().BoolVar(&hostListMonitored, "monitored", false, "only hosts with monitoring enabled")
	hostListCmd.Flags().IntVar(&hostListLimit, "limit", 0, "limit the number of hosts (0 = unlimited)")

	hostCmd.AddCommand(hostListCmd)
	rootCmd.AddCommand(hostCmd)
}
