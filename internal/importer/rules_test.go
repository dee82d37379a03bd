package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidoz/zbxctl/internal/zabbix"
)

func TestBuildRules_Modern(t *testing.T) {
	rules := BuildRules(zabbix.MustParseVersion("6.4.0"), true, true, false)

	require.Contains(t, rules, "host_groups")
	require.Contains(t, rules, "template_groups")
	require.Contains(t, rules, "templateDashboards")
	assert.NotContains(t, rules, "groups")
	assert.NotContains(t, rules, "screens")
	assert.NotContains(t, rules, "applications")

	assert.True(t, rules["hosts"]["createMissing"])
	assert.True(t, rules["hosts"]["updateExisting"])
	// deleteMissing only applies to the classes that support it.
	assert.False(t, rules["items"]["deleteMissing"])
	_, ok := rules["hosts"]["deleteMissing"]
	assert.False(t, ok)
}

func TestBuildRules_Legacy(t *testing.T) {
	rules := BuildRules(zabbix.MustParseVersion("5.2.0"), true, false, true)

	require.Contains(t, rules, "groups")
	require.Contains(t, rules, "screens")
	require.Contains(t, rules, "templateScreens")
	require.Contains(t, rules, "applications")
	assert.NotContains(t, rules, "host_groups")
	assert.NotContains(t, rules, "templateDashboards")

	// Pre-6.2 groups are create-only.
	assert.Equal(t, map[string]bool{"createMissing": true}, rules["groups"])
	assert.True(t, rules["items"]["deleteMissing"])
}

func TestBuildRules_60Boundary(t *testing.T) {
	rules := BuildRules(zabbix.MustParseVersion("6.0.0"), true, true, true)

	// 6.0 has dashboards but not the group split.
	require.Contains(t, rules, "templateDashboards")
	require.Contains(t, rules, "groups")
	assert.NotContains(t, rules, "screens")
	assert.NotContains(t, rules, "host_groups")
}
