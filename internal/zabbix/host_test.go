package zabbix

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/kidoz/zbxctl/internal/errs"
)

func TestGetHosts_VersionedParams(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		groupSelect string
		proxyField  string
	}{
		{name: "legacy", version: "5.0.0", groupSelect: "selectGroups", proxyField: "proxy_hostid"},
		{name: "6.2 renames the group selector", version: "6.2.0", groupSelect: "selectHostGroups", proxyField: "proxy_hostid"},
		{name: "7.0 renames the proxy pointer", version: "7.0.0", groupSelect: "selectHostGroups", proxyField: "proxyid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
				return []any{}, nil
			})
			c := newTestClient(t, fs, tt.version)

			_, err := c.GetHosts(context.Background(), HostGetOptions{
				SelectGroups: true,
				SelectProxy:  true,
			})
			if err != nil {
				t.Fatalf("GetHosts: %v", err)
			}

			var params map[string]json.RawMessage
			if err := json.Unmarshal(fs.last(t).Params, &params); err != nil {
				t.Fatalf("params: %v", err)
			}
			if _, ok := params[tt.groupSelect]; !ok {
				t.Errorf("params %v missing %s", keys(params), tt.groupSelect)
			}
			var output []string
			if err := json.Unmarshal(params["output"], &output); err != nil {
				t.Fatalf("output: %v", err)
			}
			if !slices.Contains(output, tt.proxyField) {
				t.Errorf("output %v missing %s", output, tt.proxyField)
			}
		})
	}
}

func TestGetHosts_Normalization(t *testing.T) {
	fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
		return []map[string]any{
			{"hostid": "1", "host": "web-01", "proxy_hostid": "10055"},
			{"hostid": "2", "host": "web-02", "proxy_hostid": "0"},
			{"hostid": "3", "host": "db-01", "hostgroups": []map[string]string{{"groupid": "4", "name": "DB"}}},
		}, nil
	})
	c := newTestClient(t, fs, "6.2.0")

	hosts, err := c.GetHosts(context.Background(), HostGetOptions{})
	if err != nil {
		t.Fatalf("GetHosts: %v", err)
	}
	if len(hosts) != 3 {
		t.Fatalf("got %d hosts", len(hosts))
	}

	// proxy_hostid folds into ProxyID; "0" means no proxy at all.
	if hosts[0].ProxyID != "10055" || hosts[0].ProxyHostID != "" {
		t.Errorf("host 1 proxy = %q/%q", hosts[0].ProxyID, hosts[0].ProxyHostID)
	}
	if hosts[1].ProxyID != "" {
		t.Errorf("host 2 proxy = %q, want absent", hosts[1].ProxyID)
	}
	// hostgroups folds into Groups.
	if len(hosts[2].Groups) != 1 || hosts[2].Groups[0].Name != "DB" {
		t.Errorf("host 3 groups = %v", hosts[2].Groups)
	}
	if hosts[2].HostGroups != nil {
		t.Error("hostgroups must be cleared after folding")
	}
}

func TestGetHost_NotFound(t *testing.T) {
	fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
		return []any{}, nil
	})
	c := newTestClient(t, fs, "7.0.0")

	_, err := c.GetHost(context.Background(), "nope", HostGetOptions{})
	if !errs.IsNotFound(err) {
		t.Errorf("err = %v, want not found kind", err)
	}
}

func TestCreateHost(t *testing.T) {
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		if method != "host.create" {
			t.Errorf("method = %q", method)
		}
		return map[string]any{"hostids": []string{"10500"}}, nil
	})
	c := newTestClient(t, fs, "7.0.0")

	id, err := c.CreateHost(context.Background(), HostCreateParams{
		Host:     "web-03",
		GroupIDs: []string{"4"},
		ProxyID:  "10055",
	})
	if err != nil {
		t.Fatalf("CreateHost: %v", err)
	}
	if id != "10500" {
		t.Errorf("id = %q", id)
	}

	var params map[string]json.RawMessage
	if err := json.Unmarshal(fs.last(t).Params, &params); err != nil {
		t.Fatalf("params: %v", err)
	}
	// 7.0 spells the proxy pointer "proxyid".
	if _, ok := params["proxyid"]; !ok {
		t.Errorf("params %v missing proxyid", keys(params))
	}
}

func TestCreateHost_MissingIDList(t *testing.T) {
	fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
		return map[string]any{}, nil
	})
	c := newTestClient(t, fs, "7.0.0")

	_, err := c.CreateHost(context.Background(), HostCreateParams{Host: "x", GroupIDs: []string{"4"}})
	if !errs.IsCall(err) {
		t.Errorf("err = %v, want call kind", err)
	}
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
