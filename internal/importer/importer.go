// Package importer walks configuration files, derives each file's
// format from its extension, and feeds them to configuration.import
// with a version-aware rule set, isolating per-file failures.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
	"github.com/kidoz/zbxctl/internal/telemetry"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Options controls one import run.
type Options struct {
	// Paths is the input files and glob patterns.
	Paths []string

	CreateMissing  bool
	UpdateExisting bool
	DeleteMissing  bool

	// DryRun lists the files that would be imported without making any
	// server call.
	DryRun bool
	// IgnoreErrors records per-file failures and keeps going instead of
	// aborting the run.
	IgnoreErrors bool
}

// Failure is one file the server rejected.
type Failure struct {
	Path string
	Err  error
}

// Result reports what an import run did. Candidates is every file that
// passed the extension filter; Imported and Failed partition the ones
// actually sent.
type Result struct {
	Candidates []string
	Imported   []string
	Failed     []Failure
}

// Importer drives bulk imports through a logged-in client.
type Importer struct {
	cfg    *config.Config
	log    *slog.Logger
	client *zabbix.Client
}

// New creates an importer.
func New(cfg *config.Config, log *slog.Logger, client *zabbix.Client) *Importer {
	return &Importer{cfg: cfg, log: log, client: client}
}

// Run imports every candidate file in deterministic order. Files that
// already imported stay imported when a later file fails.
func (i *Importer) Run(ctx context.Context, opts Options) (*Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "import")
	defer span.End()

	candidates, err := i.collectFiles(opts.Paths)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("import.candidates", len(candidates)))

	result := &Result{Candidates: candidates}
	if opts.DryRun {
		for _, path := range candidates {
			i.log.Info("would import", slog.String("path", path))
		}
		return result, nil
	}

	version, err := i.client.APIVersion(ctx)
	if err != nil {
		return nil, err
	}
	rules := BuildRules(version, opts.CreateMissing, opts.UpdateExisting, opts.DeleteMissing)

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := i.importFile(ctx, path, rules); err != nil {
			result.Failed = append(result.Failed, Failure{Path: path, Err: err})
			if opts.IgnoreErrors {
				i.log.Error("import failed, continuing",
					slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			return result, err
		}

		result.Imported = append(result.Imported, path)
		i.log.Info("imported", slog.String("path", path))
	}

	return result, nil
}

// collectFiles expands globs and filters the inputs down to regular
// files with an importable extension, sorted and deduplicated.
func (i *Importer) collectFiles(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range paths {
		matches, err := expandPattern(pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				i.log.Debug("skipping non-regular file", slog.String("path", path))
				continue
			}
			if _, err := zabbix.FormatFromExtension(path); err != nil {
				i.log.Debug("skipping file without importable extension", slog.String("path", path))
				continue
			}
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// importFile sends one file to configuration.import.
func (i *Importer) importFile(ctx context.Context, path string, rules zabbix.ImportRules) error {
	format, err := zabbix.FormatFromExtension(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.KindCall, fmt.Sprintf("cannot read import file %s", path), err)
	}

	return i.client.ImportConfiguration(ctx, format, string(data), rules)
}
