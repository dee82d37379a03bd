package zabbix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Version is a parsed Zabbix server version.
type Version struct {
	semver.Version
}

// Zabbix release candidates come without a pre-release separator
// ("7.0.0rc1"), which strict semver refuses to parse.
var bareSuffixRe = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})([A-Za-z].*)$`)

// ParseVersion parses a Zabbix server version string. It accepts short
// releases ("7.0"), full releases ("7.0.0"), pre-releases with or without
// a hyphen ("7.0.0rc1", "7.0.0-rc1") and ignores any "+build" metadata.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if i := strings.IndexByte(raw, '+'); i >= 0 {
		raw = raw[:i]
	}

	var pre string
	if i := strings.IndexByte(raw, '-'); i >= 0 {
		raw, pre = raw[:i], raw[i+1:]
	} else if m := bareSuffixRe.FindStringSubmatch(raw); m != nil {
		raw, pre = m[1], m[2]
	}

	parts := strings.Split(raw, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: too many segments", s)
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	canonical := strings.Join(parts, ".")
	if pre != "" {
		canonical += "-" + pre
	}

	v, err := semver.NewVersion(canonical)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{Version: *v}, nil
}

// MustParseVersion is ParseVersion for literals in tests and defaults.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// AtLeast compares the release tuple only, ignoring pre-release labels:
// 6.4.0rc1 gates the same features as 6.4.0.
func (v Version) AtLeast(major, minor, patch int64) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// LessThan is a full semver comparison: pre-releases sort below the
// corresponding release, so 7.0.0rc1 < 7.0.0.
func (v Version) LessThan(other Version) bool {
	return v.Version.LessThan(other.Version)
}

// Equal reports full semver equality.
func (v Version) Equal(other Version) bool {
	return v.Version.Compare(other.Version) == 0
}

// Traits holds every parameter spelling and behaviour switch that depends
// on the server version. It is computed once per client and threaded
// through the typed operations.
type Traits struct {
	// LoginUserField is the user.login parameter name: "user" before 5.4,
	// "username" from 5.4.
	LoginUserField string
	// UserObjectField is the user object's username property: "alias"
	// before 6.0, "username" from 6.0.
	UserObjectField string
	// ProxyNameField is the proxy object's name property: "host" before
	// 7.0, "name" from 7.0.
	ProxyNameField string
	// HostProxyIDField is the host object's proxy pointer: "proxy_hostid"
	// before 7.0, "proxyid" from 7.0.
	HostProxyIDField string
	// HostGroupsSelect is the host.get groups selector: "selectGroups"
	// before 6.2, "selectHostGroups" from 6.2.
	HostGroupsSelect string
	// HostAvailableField is the host availability property: "available"
	// before 6.4, "active_available" from 6.4.
	HostAvailableField string
	// UsergroupRightsSelects is the usergroup.get rights selector set: a
	// single "selectRights" before 6.2, the host/template split from 6.2.
	UsergroupRightsSelects []string

	// AuthViaHeader selects Authorization: Bearer over the body auth
	// field, from 6.4.
	AuthViaHeader bool
	// SupportsTemplateGroups reports whether templategroup.* endpoints
	// exist (6.2); before that template groups alias to host groups.
	SupportsTemplateGroups bool
	// SupportsProxyGroups reports whether proxy groups exist (7.0).
	SupportsProxyGroups bool
	// SupportsExportPretty reports whether configuration.export accepts
	// prettyprint (5.4).
	SupportsExportPretty bool
}

// TraitsFor returns the version-sensitive parameter table for a server.
func TraitsFor(v Version) Traits {
	t := Traits{
		LoginUserField:         "user",
		UserObjectField:        "alias",
		ProxyNameField:         "host",
		HostProxyIDField:       "proxy_hostid",
		HostGroupsSelect:       "selectGroups",
		HostAvailableField:     "available",
		UsergroupRightsSelects: []string{"selectRights"},
	}
	if v.AtLeast(5, 4, 0) {
		t.LoginUserField = "username"
		t.SupportsExportPretty = true
	}
	if v.AtLeast(6, 0, 0) {
		t.UserObjectField = "username"
	}
	if v.AtLeast(6, 2, 0) {
		t.HostGroupsSelect = "selectHostGroups"
		t.UsergroupRightsSelects = []string{"selectHostGroupRights", "selectTemplateGroupRights"}
		t.SupportsTemplateGroups = true
	}
	if v.AtLeast(6, 4, 0) {
		t.HostAvailableField = "active_available"
		t.AuthViaHeader = true
	}
	if v.AtLeast(7, 0, 0) {
		t.ProxyNameField = "name"
		t.HostProxyIDField = "proxyid"
		t.SupportsProxyGroups = true
	}
	return t
}
