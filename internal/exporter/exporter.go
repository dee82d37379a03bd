// Package exporter bulk-serialises Zabbix configuration objects into a
// filesystem tree, one file per object, via configuration.export.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
	"github.com/kidoz/zbxctl/internal/telemetry"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Exportable object types, in the order they are exported when no
// explicit selection is given. The names double as directory names
// under the export root.
var exportTypes = []string{
	"host_groups",
	"template_groups",
	"hosts",
	"templates",
	"images",
	"maps",
	"mediaTypes",
}

// Types returns the exportable object type names.
func Types() []string {
	out := make([]string, len(exportTypes))
	copy(out, exportTypes)
	return out
}

// Options controls one export run.
type Options struct {
	// Types is the object type selection; empty means every type the
	// server supports.
	Types []string
	// Names filters objects by name (wildcards allowed); empty means
	// all.
	Names []string

	Directory string
	Format    zabbix.Format

	// LegacyFilenames selects the zabbix_export_{type}_{name}_{id} stem.
	LegacyFilenames bool
	// Timestamps appends _YYYY-MM-DDTHHMMSS to every stem.
	Timestamps bool
	Pretty     bool

	// IgnoreErrors logs per-object failures and keeps going instead of
	// aborting the run.
	IgnoreErrors bool
}

// Exporter drives bulk exports through a logged-in client.
type Exporter struct {
	cfg    *config.Config
	log    *slog.Logger
	client *zabbix.Client
}

// New creates an exporter.
func New(cfg *config.Config, log *slog.Logger, client *zabbix.Client) *Exporter {
	return &Exporter{cfg: cfg, log: log, client: client}
}

// objectRef is the id and display name of one exportable object.
type objectRef struct {
	id   string
	name string
}

// Run exports every matching object and returns the written paths in
// export order. Partial results stay on disk when the run fails or is
// cancelled.
func (e *Exporter) Run(ctx context.Context, opts Options) ([]string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "export")
	defer span.End()

	types, err := e.resolveTypes(ctx, opts.Types)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("export.types", types))

	timestamp := ""
	if opts.Timestamps {
		timestamp = time.Now().Format("2006-01-02T150405")
	}

	var written []string
	for _, typ := range types {
		objects, err := e.fetch(ctx, typ, opts.Names)
		if err != nil {
			if opts.IgnoreErrors {
				e.log.Error("skipping object type", slog.String("type", typ), slog.String("error", err.Error()))
				continue
			}
			return written, err
		}

		e.log.Info("exporting objects", slog.String("type", typ), slog.Int("count", len(objects)))

		for _, obj := range objects {
			if err := ctx.Err(); err != nil {
				return written, err
			}

			path, err := e.exportOne(ctx, typ, obj, opts, timestamp)
			if err != nil {
				if opts.IgnoreErrors {
					e.log.Error("skipping object",
						slog.String("type", typ), slog.String("name", obj.name), slog.String("error", err.Error()))
					continue
				}
				return written, err
			}
			written = append(written, path)
			e.log.Debug("exported", slog.String("path", path))
		}
	}

	return written, nil
}

// resolveTypes validates an explicit type selection or derives the
// default one from the server version.
func (e *Exporter) resolveTypes(ctx context.Context, requested []string) ([]string, error) {
	version, err := e.client.APIVersion(ctx)
	if err != nil {
		return nil, err
	}
	templateGroups := zabbix.TraitsFor(version).SupportsTemplateGroups

	if len(requested) == 0 {
		var types []string
		for _, typ := range exportTypes {
			if typ == "template_groups" && !templateGroups {
				continue
			}
			types = append(types, typ)
		}
		return types, nil
	}

	known := map[string]bool{}
	for _, typ := range exportTypes {
		known[typ] = true
	}
	for _, typ := range requested {
		if !known[typ] {
			return nil, errs.Newf(errs.KindConfig, "unknown export type %q", typ)
		}
		if typ == "template_groups" && !templateGroups {
			return nil, errs.Newf(errs.KindConfig,
				"template group export requires Zabbix 6.2, server is %s", version)
		}
	}
	return requested, nil
}

// fetch enumerates the objects of one type matching the name filters.
func (e *Exporter) fetch(ctx context.Context, typ string, names []string) ([]objectRef, error) {
	switch typ {
	case "host_groups":
		groups, err := e.client.GetHostGroups(ctx, zabbix.HostGroupGetOptions{NamesOrIDs: names})
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(groups))
		for i, g := range groups {
			refs[i] = objectRef{id: g.GroupID, name: g.Name}
		}
		return refs, nil

	case "template_groups":
		groups, err := e.client.GetTemplateGroups(ctx, zabbix.TemplateGroupGetOptions{NamesOrIDs: names})
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(groups))
		for i, g := range groups {
			refs[i] = objectRef{id: g.GroupID, name: g.Name}
		}
		return refs, nil

	case "hosts":
		hosts, err := e.client.GetHosts(ctx, zabbix.HostGetOptions{NamesOrIDs: names})
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(hosts))
		for i, h := range hosts {
			refs[i] = objectRef{id: h.HostID, name: h.Host}
		}
		return refs, nil

	case "templates":
		templates, err := e.client.GetTemplates(ctx, zabbix.TemplateGetOptions{NamesOrIDs: names})
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(templates))
		for i, t := range templates {
			refs[i] = objectRef{id: t.TemplateID, name: t.Host}
		}
		return refs, nil

	case "images":
		images, err := e.client.GetImages(ctx, names)
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(images))
		for i, img := range images {
			refs[i] = objectRef{id: img.ImageID, name: img.Name}
		}
		return refs, nil

	case "maps":
		maps, err := e.client.GetMaps(ctx, names)
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(maps))
		for i, m := range maps {
			refs[i] = objectRef{id: m.SysmapID, name: m.Name}
		}
		return refs, nil

	case "mediaTypes":
		mediaTypes, err := e.client.GetMediaTypes(ctx, names)
		if err != nil {
			return nil, err
		}
		refs := make([]objectRef, len(mediaTypes))
		for i, mt := range mediaTypes {
			refs[i] = objectRef{id: mt.MediaTypeID, name: mt.Name}
		}
		return refs, nil
	}

	return nil, errs.Newf(errs.KindConfig, "unknown export type %q", typ)
}

// exportKey returns the configuration.export options key for a type.
// Host groups were exported under "groups" before the 6.2 rename.
func (e *Exporter) exportKey(typ string) string {
	switch typ {
	case "host_groups":
		if !e.client.Traits().SupportsTemplateGroups {
			return "groups"
		}
		return "host_groups"
	default:
		return typ
	}
}

// exportOne serialises a single object and writes it to its target
// path.
func (e *Exporter) exportOne(ctx context.Context, typ string, obj objectRef, opts Options, timestamp string) (string, error) {
	payload, warnings, err := e.client.ExportConfiguration(ctx, opts.Format, opts.Pretty,
		map[string][]string{e.exportKey(typ): {obj.id}})
	for _, w := range warnings {
		e.log.Warn(w.Message)
	}
	if err != nil {
		return "", err
	}

	stem := fmt.Sprintf("%s_%s", obj.name, obj.id)
	if opts.LegacyFilenames {
		stem = fmt.Sprintf("zabbix_export_%s_%s_%s", typ, obj.name, obj.id)
	}
	if timestamp != "" {
		stem += "_" + timestamp
	}

	dir := filepath.Join(opts.Directory, typ)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(errs.KindCall, fmt.Sprintf("cannot create export directory %s", dir), err)
	}

	path := filepath.Join(dir, sanitizeFilename(stem)+"."+string(opts.Format))
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		return "", errs.Wrap(errs.KindCall, fmt.Sprintf("cannot write export file %s", path), err)
	}
	return path, nil
}
