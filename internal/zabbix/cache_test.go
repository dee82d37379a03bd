package zabbix

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kidoz/zbxctl/internal/errs"
)

func TestGroupCache(t *testing.T) {
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		switch method {
		case "hostgroup.get":
			return []map[string]string{
				{"groupid": "2", "name": "Linux servers"},
				{"groupid": "4", "name": "Zabbix servers"},
			}, nil
		case "templategroup.get":
			return []map[string]string{
				{"groupid": "12", "name": "Templates/OS"},
			}, nil
		default:
			t.Errorf("unexpected method %q", method)
			return nil, &errs.APIError{Code: -1, Message: "unexpected"}
		}
	})
	c := newTestClient(t, fs, "6.4.0")
	gc := NewGroupCache(c)

	if err := gc.Populate(context.Background()); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	calls := len(fs.requests)
	if calls != 2 {
		t.Errorf("Populate made %d calls, want 2", calls)
	}

	if id, ok := gc.HostGroupID("Linux servers"); !ok || id != "2" {
		t.Errorf("HostGroupID = %q, %v", id, ok)
	}
	if name, ok := gc.HostGroupName("4"); !ok || name != "Zabbix servers" {
		t.Errorf("HostGroupName = %q, %v", name, ok)
	}
	if id, ok := gc.TemplateGroupID("Templates/OS"); !ok || id != "12" {
		t.Errorf("TemplateGroupID = %q, %v", id, ok)
	}
	if _, ok := gc.HostGroupID("nope"); ok {
		t.Error("unknown name must miss")
	}
	// Lookups never reach the server.
	if len(fs.requests) != calls {
		t.Errorf("lookups made %d extra calls", len(fs.requests)-calls)
	}

	gc.Invalidate()
	if _, ok := gc.HostGroupID("Linux servers"); ok {
		t.Error("Invalidate must empty the cache")
	}
}

func TestGroupCache_LegacyServerAliasesTemplateGroups(t *testing.T) {
	var methods []string
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		methods = append(methods, method)
		return []map[string]string{{"groupid": "2", "name": "Linux servers"}}, nil
	})
	c := newTestClient(t, fs, "6.0.0")
	gc := NewGroupCache(c)

	if err := gc.Populate(context.Background()); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	// Before 6.2 there is no templategroup API; both fills go through
	// hostgroup.get.
	for _, m := range methods {
		if m != "hostgroup.get" {
			t.Errorf("unexpected method %q on a 6.0 server", m)
		}
	}
	if id, ok := gc.TemplateGroupID("Linux servers"); !ok || id != "2" {
		t.Errorf("TemplateGroupID = %q, %v", id, ok)
	}
}
