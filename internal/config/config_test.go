package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/ini.v1"

	"github.com/kidoz/zbxctl/internal/errs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.URL != "http://localhost" {
		t.Errorf("URL = %q, want http://localhost", cfg.API.URL)
	}
	if cfg.API.Timeout != 30 {
		t.Errorf("Timeout = %d, want 30", cfg.API.Timeout)
	}
	if cfg.API.VerifySSL != true {
		t.Error("VerifySSL should default to true")
	}
	if !cfg.Session.UseFile {
		t.Error("Session.UseFile should default to true")
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Export.Format = %q, want json", cfg.Export.Format)
	}
	if cfg.Export.Directory != "exports" {
		t.Errorf("Export.Directory = %q, want exports", cfg.Export.Directory)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.URL = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "api.url") {
			t.Errorf("expected api.url error, got: %v", err)
		}
		if !errs.IsConfig(err) {
			t.Error("validation failures must be config-kind errors")
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.URL = "not-a-url"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "api.url") {
			t.Errorf("expected api.url error, got: %v", err)
		}
	})

	t.Run("negative timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.Timeout = -1
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "api.timeout") {
			t.Errorf("expected api.timeout error, got: %v", err)
		}
	})

	t.Run("zero timeout is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.Timeout = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("timeout 0 means unlimited, got: %v", err)
		}
	})

	t.Run("bad export format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Export.Format = "csv"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "export.format") {
			t.Errorf("expected export.format error, got: %v", err)
		}
	})

	t.Run("multiple errors at once", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.URL = ""
		cfg.Export.Format = "csv"
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		errStr := err.Error()
		if !strings.Contains(errStr, "api.url") {
			t.Error("expected api.url error in combined output")
		}
		if !strings.Contains(errStr, "export.format") {
			t.Error("expected export.format error in combined output")
		}
	})
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zbxctl.toml")

	content := `[api]
url = "https://zabbix.example.com"
username = "Admin"
timeout = 60
verify_ssl = false

[session]
use_file = false
allow_insecure = true

[export]
directory = "/var/lib/zbxctl/exports"
format = "yaml"
timestamps = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.URL != "https://zabbix.example.com" {
		t.Errorf("URL = %q", cfg.API.URL)
	}
	if cfg.API.Username != "Admin" {
		t.Errorf("Username = %q, want Admin", cfg.API.Username)
	}
	if cfg.API.Timeout != 60 {
		t.Errorf("Timeout = %d, want 60", cfg.API.Timeout)
	}
	if cfg.API.VerifySSL {
		t.Error("VerifySSL should be false")
	}
	if cfg.Session.UseFile {
		t.Error("Session.UseFile should be false")
	}
	if !cfg.Session.AllowInsecure {
		t.Error("Session.AllowInsecure should be true")
	}
	if cfg.Export.Directory != "/var/lib/zbxctl/exports" {
		t.Errorf("Export.Directory = %q", cfg.Export.Directory)
	}
	if cfg.Export.Format != "yaml" {
		t.Errorf("Export.Format = %q, want yaml", cfg.Export.Format)
	}
	if !cfg.Export.Timestamps {
		t.Error("Export.Timestamps should be true")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zbxctl.yaml")

	content := `
api:
  url: "http://zabbix.local"
  auth_token: "abc123"
export:
  format: xml
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.URL != "http://zabbix.local" {
		t.Errorf("URL = %q", cfg.API.URL)
	}
	if cfg.API.AuthToken != "abc123" {
		t.Errorf("AuthToken = %q", cfg.API.AuthToken)
	}
	if cfg.Export.Format != "xml" {
		t.Errorf("Export.Format = %q, want xml", cfg.Export.Format)
	}
	// defaults survive partial files
	if cfg.API.Timeout != 30 {
		t.Errorf("Timeout = %d, want default 30", cfg.API.Timeout)
	}
}

func TestLoadINI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zbxctl.conf")

	content := `[zabbix_api]
zabbix_api_url = http://zabbix.local
cert_verify = false

[zabbix_config]
default_directory_exports = /tmp/exports
default_export_format = yaml
include_timestamp_export_filename = true
use_auth_token_file = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.URL != "http://zabbix.local" {
		t.Errorf("URL = %q", cfg.API.URL)
	}
	if cfg.API.VerifySSL {
		t.Error("VerifySSL: INI key cert_verify not mapped")
	}
	if cfg.Export.Directory != "/tmp/exports" {
		t.Errorf("Export.Directory = %q", cfg.Export.Directory)
	}
	if cfg.Export.Format != "yaml" {
		t.Errorf("Export.Format = %q", cfg.Export.Format)
	}
	if !cfg.Export.Timestamps {
		t.Error("Export.Timestamps: INI key include_timestamp_export_filename not mapped")
	}
	if cfg.Session.UseFile {
		t.Error("Session.UseFile: INI key use_auth_token_file not mapped")
	}
}

func TestINIToMap_Warnings(t *testing.T) {
	f, err := ini.Load([]byte(`[zabbix_config]
zabbix_api_url = http://zabbix.local
system_id = prod-zabbix
use_colors = true
some_future_key = 1
`))
	if err != nil {
		t.Fatal(err)
	}

	m, warnings := iniToMap(f)

	if m["api.url"] != "http://zabbix.local" {
		t.Errorf("api.url = %v", m["api.url"])
	}

	var legacy, unrecognized int
	for _, w := range warnings {
		switch {
		case strings.Contains(w, "legacy INI key"):
			legacy++
		case strings.Contains(w, "unrecognized INI key"):
			unrecognized++
		}
	}
	if legacy != 2 {
		t.Errorf("legacy warnings = %d, want 2 (system_id, use_colors): %v", legacy, warnings)
	}
	if unrecognized != 1 {
		t.Errorf("unrecognized warnings = %d, want 1 (some_future_key): %v", unrecognized, warnings)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errs.IsConfig(err) {
		t.Errorf("missing config file should be a config-kind error, got %v", err)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.API.URL != "http://localhost" {
		t.Errorf("URL = %q, want default", cfg.API.URL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ZBXCTL_API_TIMEOUT", "5")
	t.Setenv("ZABBIX_URL", "https://env.example.com")
	// Credential variables must not leak into the config.
	t.Setenv("ZABBIX_API_TOKEN", "secret-token")
	t.Setenv("ZABBIX_USERNAME", "env-user")
	t.Setenv("ZABBIX_PASSWORD", "env-pass")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Timeout != 5 {
		t.Errorf("Timeout = %d, want 5 from ZBXCTL_API_TIMEOUT", cfg.API.Timeout)
	}
	if cfg.API.URL != "https://env.example.com" {
		t.Errorf("URL = %q, want ZABBIX_URL value", cfg.API.URL)
	}
	if cfg.API.AuthToken != "" {
		t.Errorf("AuthToken = %q, credential env vars must stay out of config", cfg.API.AuthToken)
	}
	if cfg.API.Username != "" || cfg.API.Password != "" {
		t.Error("username/password env vars must stay out of config")
	}
}

func TestAPIURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://zabbix.local", "http://zabbix.local/api_jsonrpc.php"},
		{"http://zabbix.local/", "http://zabbix.local/api_jsonrpc.php"},
		{"http://zabbix.local/api_jsonrpc.php", "http://zabbix.local/api_jsonrpc.php"},
		{"http://zabbix.local/api_jsonrpc.php/", "http://zabbix.local/api_jsonrpc.php"},
		{"https://example.com/zabbix", "https://example.com/zabbix/api_jsonrpc.php"},
		{" http://zabbix.local ", "http://zabbix.local/api_jsonrpc.php"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.API.URL = tt.in
			if got := cfg.APIURL(); got != tt.want {
				t.Errorf("APIURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
