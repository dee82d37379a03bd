package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/exporter"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

var (
	exportTypes           []string
	exportNames           []string
	exportDir             string
	exportFormat          string
	exportLegacyFilenames bool
	exportTimestamps      bool
	exportPretty          bool
	exportIgnoreErrors    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export Zabbix configuration objects to files",
	Long: fmt.Sprintf(`Export configuration objects into a directory tree, one file per
object, named {name}_{id}.{format}.

Available types: %s.`, strings.Join(exporter.Types(), ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if exportDir == "" {
			exportDir = cfg.Export.Directory
		}
		if exportFormat == "" {
			exportFormat = cfg.Export.Format
		}
		format, err := zabbix.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		e, _, err := initExporter(ctx, cfg, log)
		if err != nil {
			return err
		}

		written, err := e.Run(ctx, exporter.Options{
			Types:           exportTypes,
			Names:           exportNames,
			Directory:       exportDir,
			Format:          format,
			LegacyFilenames: exportLegacyFilenames || cfg.Export.LegacyFilenames,
			Timestamps:      exportTimestamps || cfg.Export.Timestamps,
			Pretty:          exportPretty,
			IgnoreErrors:    exportIgnoreErrors,
		})
		if err != nil {
			return err
		}

		for _, path := range written {
			fmt.Println(path)
		}
		log.Info("export finished", "files", len(written))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportTypes, "type", nil, "object types to export (default: all)")
	exportCmd.Flags().StringSliceVar(&exportNames, "name", nil, "object names to export, wildcards allowed (default: all)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "export directory (default: from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: json, yaml, xml or php (default: from config)")
	exportCmd.Flags().BoolVar(&exportLegacyFilenames, "legacy-filenames", false, "use zabbix_export_{type}_{name}_{id} file names")
	exportCmd.Flags().BoolVar(&exportTimestamps, "timestamps", false, "append a timestamp to file names")
	exportCmd.Flags().BoolVar(&exportPretty, "pretty", false, "pretty-print the exported payloads")
	exportCmd.Flags().BoolVar(&exportIgnoreErrors, "ignore-errors", false, "log per-object failures and continue")

	rootCmd.AddCommand(exportCmd)
}
