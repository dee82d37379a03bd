package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/ini.v1"

	"github.com/kidoz/zbxctl/internal/errs"
)

// configSearchPaths lists config file locations to try, in priority order.
// The xdg entry is computed in FindConfigPath.
var configSearchPaths = []string{
	"zbxctl.toml",
	"", // <xdg config>/zbxctl/zbxctl.toml
	"/etc/zbxctl/zbxctl.toml",
	"/etc/zbxctl.conf", // legacy INI
}

// FindConfigPath returns the first existing config file from the search
// paths, or "" when none exists. A missing config file is not an error:
// the tool can run on defaults plus environment variables.
func FindConfigPath() string {
	for _, path := range configSearchPaths {
		if path == "" {
			path = filepath.Join(xdg.ConfigHome, "zbxctl", "zbxctl.toml")
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Config holds all configuration values for zbxctl.
type Config struct {
	API       APIConfig       `koanf:"api"`
	Session   SessionConfig   `koanf:"session"`
	Export    ExportConfig    `koanf:"export"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// APIConfig holds Zabbix connection settings.
type APIConfig struct {
	// URL is the server base URL; a trailing /api_jsonrpc.php is tolerated.
	URL       string `koanf:"url"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	AuthToken string `koanf:"auth_token"`
	// Timeout is the per-request timeout in seconds; 0 disables it.
	Timeout   int  `koanf:"timeout"`
	VerifySSL bool `koanf:"verify_ssl"`
}

// SessionConfig controls session and auth file handling.
type SessionConfig struct {
	// UseFile opts into persisting session ids obtained via user.login.
	UseFile bool `koanf:"use_file"`
	// File is the session file path; empty selects the xdg default.
	File string `koanf:"file"`
	// AuthFile is a legacy "<user>::<password>" file path.
	AuthFile string `koanf:"auth_file"`
	// AuthTokenFile is a legacy "<user>::<token>" file path.
	AuthTokenFile string `koanf:"auth_token_file"`
	// AllowInsecure skips the 0600 file mode enforcement.
	AllowInsecure bool `koanf:"allow_insecure"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Directory       string `koanf:"directory"`
	Format          string `koanf:"format"`
	Timestamps      bool   `koanf:"timestamps"`
	LegacyFilenames bool   `koanf:"legacy_filenames"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:       "http://localhost",
			Timeout:   30,
			VerifySSL: true,
		},
		Session: SessionConfig{
			UseFile: true,
		},
		Export: ExportConfig{
			Directory: "exports",
			Format:    "json",
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}

// Load reads configuration from a file, auto-detecting format by extension:
// .toml → TOML, .yaml/.yml → YAML, .conf/.ini or anything else → legacy INI.
// An empty path loads defaults plus environment overrides only.
// ZBXCTL_-prefixed environment variables override file values; ZABBIX_URL
// overrides api.url. The credential variables (ZABBIX_API_TOKEN,
// ZABBIX_USERNAME, ZABBIX_PASSWORD) are deliberately not merged here; the
// credential resolver reads them itself so source precedence stays intact.
func Load(path string) (*Config, error) {
	if path == "" {
		k := koanf.New(".")
		if err := loadDefaults(k); err != nil {
			return nil, err
		}
		if err := loadEnvOverrides(k); err != nil {
			return nil, err
		}
		return unmarshalAndValidate(k)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errs.Newf(errs.KindConfig, "config file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadWithParser(path, toml.Parser())
	case ".yaml", ".yml":
		return loadWithParser(path, yaml.Parser())
	default:
		// .conf, .ini, or no extension (backwards compat)
		return loadINI(path)
	}
}

func loadWithParser(path string, parser koanf.Parser) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errs.Wrap(errs.KindConfig, fmt.Sprintf("cannot parse config file %s", path), err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// loadINI loads config from a legacy INI file (zabbix-cli style .conf).
func loadINI(path string) (*Config, error) {
	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, fmt.Sprintf("cannot parse INI config file %s", path), err)
	}

	m, warnings := iniToMap(iniFile)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "cannot load INI values", err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// iniKeyMap maps INI key names (lowercased, no separators) to koanf key
// paths. The names follow the legacy zabbix-cli .conf vocabulary.
var iniKeyMap = map[string]string{
	"zabbixapiurl":                   "api.url",
	"zabbixapiuser":                  "api.username",
	"zabbixapipassword":              "api.password",
	"zabbixapitoken":                 "api.auth_token",
	"certverify":                     "api.verify_ssl",
	"verifyssl":                      "api.verify_ssl",
	"timeout":                        "api.timeout",
	"useauthtokenfile":               "session.use_file",
	"authtokenfile":                  "session.auth_token_file",
	"authfile":                       "session.auth_file",
	"allowinsecureauthfile":          "session.allow_insecure",
	"defaultdirectoryexports":        "export.directory",
	"defaultexportformat":            "export.format",
	"includetimestampexportfilename": "export.timestamps",
	"legacyexportfilenames":          "export.legacy_filenames",
}

// legacyINIKeys lists zabbix-cli keys that are recognized but have no
// zbxctl equivalent. They produce a specific warning instead of
// "unrecognized".
var legacyINIKeys = map[string]bool{
	"systemid":                          true, // prompt decoration, not applicable
	"defaulthostgroup":                  true, // command-level default, pass flags instead
	"defaultadminusergroup":             true, // command-level default, pass flags instead
	"defaultcreateuserusergroup":        true, // command-level default, pass flags instead
	"defaultnotificationusersusergroup": true, // command-level default, pass flags instead
	"usecolors":                         true, // plain output only
	"usepaging":                         true, // plain output only
	"logging":                           true, // use --verbose instead
	"loglevel":                          true, // use --verbose instead
	"logfile":                           true, // logs go to stderr
}

// iniToMap maps legacy INI section/key names to the nested koanf key
// namespace. It returns the mapped values and warnings for skipped keys.
func iniToMap(f *ini.File) (map[string]interface{}, []string) {
	m := make(map[string]interface{})
	var warnings []string

	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			normalised := strings.ReplaceAll(strings.ToLower(key.Name()), "_", "")
			if koanfKey, ok := iniKeyMap[normalised]; ok {
				m[koanfKey] = key.Value()
			} else if legacyINIKeys[normalised] {
				warnings = append(warnings, fmt.Sprintf("legacy INI key [%s] %s is not supported by zbxctl (skipped)", section.Name(), key.Name()))
			} else if section.Name() != "DEFAULT" {
				warnings = append(warnings, fmt.Sprintf("unrecognized INI key [%s] %s (skipped)", section.Name(), key.Name()))
			}
		}
	}

	return m, warnings
}

// --- helpers ---

func loadDefaults(k *koanf.Koanf) error {
	defaults := DefaultConfig()
	return k.Load(confmap.Provider(map[string]interface{}{
		"api.url":                 defaults.API.URL,
		"api.timeout":             defaults.API.Timeout,
		"api.verify_ssl":          defaults.API.VerifySSL,
		"session.use_file":        defaults.Session.UseFile,
		"export.directory":        defaults.Export.Directory,
		"export.format":           defaults.Export.Format,
		"export.timestamps":       defaults.Export.Timestamps,
		"export.legacy_filenames": defaults.Export.LegacyFilenames,
		"telemetry.enabled":       defaults.Telemetry.Enabled,
	}, "."), nil)
}

func loadEnvOverrides(k *koanf.Koanf) error {
	// ZBXCTL_API_TIMEOUT → api.timeout
	if err := k.Load(env.Provider("ZBXCTL_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ZBXCTL_"))
		if idx := strings.Index(s, "_"); idx >= 0 {
			return s[:idx] + "." + s[idx+1:]
		}
		return s
	}), nil); err != nil {
		return errs.Wrap(errs.KindConfig, "cannot load environment overrides", err)
	}

	// ZABBIX_URL → api.url; the other ZABBIX_ variables are credentials
	// and belong to the resolver, so they are dropped here.
	return k.Load(env.Provider("ZABBIX_", ".", func(s string) string {
		if s == "ZABBIX_URL" {
			return "api.url"
		}
		return ""
	}), nil)
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "cannot unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var exportFormats = map[string]bool{"json": true, "yaml": true, "xml": true, "php": true}

// Validate checks connection fields and value ranges.
func (c *Config) Validate() error {
	var problems []error

	if c.API.URL == "" {
		problems = append(problems, fmt.Errorf("api.url is required"))
	} else {
		u, err := url.Parse(c.API.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Errorf("api.url must be a valid URL with scheme and host"))
		}
	}
	if c.API.Timeout < 0 {
		problems = append(problems, fmt.Errorf("api.timeout must be >= 0 (0 disables the timeout), got %d", c.API.Timeout))
	}
	if !exportFormats[strings.ToLower(c.Export.Format)] {
		problems = append(problems, fmt.Errorf("export.format must be one of json, yaml, xml, php; got %q", c.Export.Format))
	}

	if len(problems) > 0 {
		return errs.Wrap(errs.KindConfig, "invalid configuration", errors.Join(problems...))
	}
	return nil
}

// APIURL returns the canonical JSON-RPC endpoint: the configured base URL
// with exactly one trailing /api_jsonrpc.php.
func (c *Config) APIURL() string {
	u := strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	u = strings.TrimSuffix(u, "/api_jsonrpc.php")
	return strings.TrimRight(u, "/") + "/api_jsonrpc.php"
}
