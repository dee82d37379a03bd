package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kidoz/zbxctl/internal/importer"
)

var (
	importCreateMissing  bool
	importUpdateExisting bool
	importDeleteMissing  bool
	importDryRun         bool
	importIgnoreErrors   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Import Zabbix configuration from files",
	Long: `Import configuration files (.json, .yaml, .xml) into the server.
Globs are expanded and files without an importable extension are
skipped. Each file is imported on its own, so one bad file does not
undo the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := importer.Options{
			Paths:          args,
			CreateMissing:  importCreateMissing,
			UpdateExisting: importUpdateExisting,
			DeleteMissing:  importDeleteMissing,
			DryRun:         importDryRun,
			IgnoreErrors:   importIgnoreErrors,
		}

		var (
			imp *importer.Importer
			err error
		)
		if importDryRun {
			imp, err = initImporterNoAuth(cfg, log)
		} else {
			imp, _, err = initImporter(ctx, cfg, log)
		}
		if err != nil {
			return err
		}

		result, err := imp.Run(ctx, opts)
		if err != nil {
			return err
		}

		if importDryRun {
			for _, path := range result.Candidates {
				fmt.Println(path)
			}
			return nil
		}

		for _, path := range result.Imported {
			fmt.Println(path)
		}
		log.Info("import finished",
			"imported", len(result.Imported), "failed", len(result.Failed))
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of %d files failed to import", len(result.Failed), len(result.Candidates))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importCreateMissing, "create-missing", true, "create objects missing on the server")
	importCmd.Flags().BoolVar(&importUpdateExisting, "update-existing", false, "update objects already on the server")
	importCmd.Flags().BoolVar(&importDeleteMissing, "delete-missing", false, "delete server objects absent from the files")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "list the files that would be imported, without server calls")
	importCmd.Flags().BoolVar(&importIgnoreErrors, "ignore-errors", false, "log per-file failures and continue")

	rootCmd.AddCommand(importCmd)
}
