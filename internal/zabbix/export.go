package zabbix

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/kidoz/zbxctl/internal/errs"
)

// Format is a configuration.export / configuration.import data format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	// FormatPHP is export-only; the server cannot import it back.
	FormatPHP Format = "php"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatXML, FormatPHP:
		return f, nil
	default:
		return "", errs.Newf(errs.KindConfig, "unknown export format %q (want json, yaml, xml or php)", s)
	}
}

// FormatFromExtension derives the import format from a file name.
// Only json, yaml and xml files are importable.
func FormatFromExtension(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", errs.Newf(errs.KindCall, "file %q has no importable extension (want .json, .yaml or .xml)", path)
	}
}

// Warning is a non-fatal adjustment the client made to a request, for
// the front-end to display.
type Warning struct {
	Message string
}

// ExportConfiguration serialises the objects selected by options (an
// export options key such as "hosts" mapped to ids) and returns the
// payload. Pretty-printing is downgraded with a Warning when the
// format or the server cannot honour it: XML export never supports it
// and the prettyprint parameter arrived in 5.4.
func (c *Client) ExportConfiguration(ctx context.Context, format Format, pretty bool, options map[string][]string) (string, []Warning, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return "", nil, err
	}

	var warnings []Warning
	if pretty && format == FormatXML {
		warnings = append(warnings, Warning{Message: "pretty-printing is not supported for XML exports, exporting compact"})
		pretty = false
	}
	if pretty && !c.traits.SupportsExportPretty {
		warnings = append(warnings, Warning{
			Message: "pretty-printing requires Zabbix 5.4, server is " + c.version.String() + ", exporting compact",
		})
		pretty = false
	}

	params := map[string]any{
		"format":  string(format),
		"options": options,
	}
	if pretty {
		params["prettyprint"] = true
	}

	result, err := c.call(ctx, "configuration.export", params)
	if err != nil {
		return "", warnings, wrapCall(err, "failed to export configuration")
	}

	var payload string
	if err := json.Unmarshal(result, &payload); err != nil {
		return "", warnings, errs.Wrap(errs.KindCall, "configuration.export result is not a string", err)
	}
	return payload, warnings, nil
}

// ImportRules is the configuration.import rules structure: object
// class name to its create/update/delete flags.
type ImportRules map[string]map[string]bool

// ImportConfiguration imports a configuration payload with the given
// rules. The format must match the payload; FormatFromExtension derives
// it for files.
func (c *Client) ImportConfiguration(ctx context.Context, format Format, source string, rules ImportRules) error {
	if format == FormatPHP {
		return errs.New(errs.KindCall, "the php format is export-only")
	}

	params := map[string]any{
		"format": string(format),
		"source": source,
		"rules":  rules,
	}

	result, err := c.call(ctx, "configuration.import", params)
	if err != nil {
		return wrapCall(err, "failed to import configuration")
	}

	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil {
		return errs.Wrap(errs.KindCall, "configuration.import result is not a boolean", err)
	}
	if !ok {
		return errs.New(errs.KindCall, "server reported an unsuccessful import")
	}
	return nil
}
