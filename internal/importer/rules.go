package importer

import "github.com/kidoz/zbxctl/internal/zabbix"

// BuildRules composes the configuration.import rule set for a server
// version. Each object class only accepts the flags it supports, and
// the class list itself moved around over the releases: host and
// template groups split in 6.2, dashboards replaced screens in 6.0.
func BuildRules(version zabbix.Version, createMissing, updateExisting, deleteMissing bool) zabbix.ImportRules {
	createUpdate := map[string]bool{
		"createMissing":  createMissing,
		"updateExisting": updateExisting,
	}
	all := map[string]bool{
		"createMissing":  createMissing,
		"updateExisting": updateExisting,
		"deleteMissing":  deleteMissing,
	}

	rules := zabbix.ImportRules{
		"hosts":           createUpdate,
		"httptests":       createUpdate,
		"images":          createUpdate,
		"maps":            createUpdate,
		"mediaTypes":      createUpdate,
		"templates":       createUpdate,
		"discoveryRules":  all,
		"graphs":          all,
		"items":           all,
		"triggers":        all,
		"valueMaps":       all,
		"templateLinkage": {"createMissing": createMissing, "deleteMissing": deleteMissing},
	}

	if version.AtLeast(6, 2, 0) {
		rules["host_groups"] = createUpdate
		rules["template_groups"] = createUpdate
	} else {
		rules["groups"] = map[string]bool{"createMissing": createMissing}
	}

	if version.AtLeast(6, 0, 0) {
		rules["templateDashboards"] = all
	} else {
		rules["applications"] = map[string]bool{"createMissing": createMissing, "deleteMissing": deleteMissing}
		rules["screens"] = createUpdate
		rules["templateScreens"] = createUpdate
	}

	return rules
}
