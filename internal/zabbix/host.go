package zabbix

import (
	"context"
	"log/slog"
)

// HostGetOptions selects which nested collections host.get should
// return. All selections are off by default; the exporter and the CLI
// turn on what they need.
type HostGetOptions struct {
	// NamesOrIDs filters hosts by technical name (wildcards allowed) or
	// by id; "*" or empty matches all.
	NamesOrIDs []string

	SelectGroups     bool
	SelectTemplates  bool
	SelectInterfaces bool
	SelectMacros     bool
	SelectInventory  bool
	SelectProxy      bool

	// MonitoredOnly restricts the result to hosts with monitoring on.
	MonitoredOnly bool
	Limit         int
}

// GetHosts returns hosts matching the options. The groups selector and
// the proxy id field are spelled per server version.
func (c *Client) GetHosts(ctx context.Context, opts HostGetOptions) ([]Host, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	output := []string{"hostid", "host", "name", "status", "maintenance_status", c.traits.HostAvailableField}
	if opts.SelectProxy {
		output = append(output, c.traits.HostProxyIDField)
		if c.traits.SupportsProxyGroups {
			output = append(output, "proxy_groupid", "monitored_by")
		}
	}

	params := map[string]any{"output": output}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "hostids", "host")

	if opts.SelectGroups {
		params[c.traits.HostGroupsSelect] = []string{"groupid", "name"}
	}
	if opts.SelectTemplates {
		params["selectParentTemplates"] = []string{"templateid", "host", "name"}
	}
	if opts.SelectInterfaces {
		params["selectInterfaces"] = []string{"interfaceid", "ip", "dns", "port", "type", "main", "useip"}
	}
	if opts.SelectMacros {
		params["selectMacros"] = []string{"hostmacroid", "macro", "value", "type", "description"}
	}
	if opts.SelectInventory {
		params["selectInventory"] = "extend"
	}
	if opts.MonitoredOnly {
		params["monitored_hosts"] = true
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}

	var hosts []Host
	if err := c.callResult(ctx, "host.get", params, &hosts); err != nil {
		return nil, wrapCall(err, "failed to get hosts")
	}

	for i := range hosts {
		c.normalizeHost(&hosts[i])
	}
	return hosts, nil
}

// GetHost returns exactly one host by technical name or id. Absence is
// a NotFound error, never a nil host.
func (c *Client) GetHost(ctx context.Context, nameOrID string, opts HostGetOptions) (*Host, error) {
	opts.NamesOrIDs = []string{nameOrID}
	hosts, err := c.GetHosts(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, notFound("host %q not found", nameOrID)
	}
	return &hosts[0], nil
}

// HostCreateParams carries everything host.create needs. GroupIDs is
// mandatory on every Zabbix version.
type HostCreateParams struct {
	Host        string
	Name        string
	GroupIDs    []string
	TemplateIDs []string
	Interfaces  []HostInterface
	Macros      []Macro
	ProxyID     string
	Status      string
	Description string
}

// CreateHost creates a host and returns its new id.
func (c *Client) CreateHost(ctx context.Context, p HostCreateParams) (string, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return "", err
	}

	params := map[string]any{
		"host":   p.Host,
		"groups": idRefs("groupid", p.GroupIDs),
	}
	if p.Name != "" {
		params["name"] = p.Name
	}
	if len(p.TemplateIDs) > 0 {
		params["templates"] = idRefs("templateid", p.TemplateIDs)
	}
	if len(p.Interfaces) > 0 {
		params["interfaces"] = p.Interfaces
	}
	if len(p.Macros) > 0 {
		params["macros"] = p.Macros
	}
	if p.ProxyID != "" {
		params[c.traits.HostProxyIDField] = p.ProxyID
	}
	if p.Status != "" {
		params["status"] = p.Status
	}
	if p.Description != "" {
		params["description"] = p.Description
	}

	result, err := c.call(ctx, "host.create", params)
	if err != nil {
		return "", wrapCall(err, "failed to create host %q", p.Host)
	}
	ids, err := bulkIDs(result, "host.create", "hostids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// UpdateHost applies host.update properties to a host. Callers pass
// only the fields they change; ids stay strings.
func (c *Client) UpdateHost(ctx context.Context, hostID string, properties map[string]any) error {
	params := map[string]any{"hostid": hostID}
	for k, v := range properties {
		params[k] = v
	}
	result, err := c.call(ctx, "host.update", params)
	if err != nil {
		return wrapCall(err, "failed to update host %q", hostID)
	}
	_, err = bulkIDs(result, "host.update", "hostids")
	return err
}

// DeleteHosts deletes hosts by id and returns the deleted ids.
func (c *Client) DeleteHosts(ctx context.Context, hostIDs []string) ([]string, error) {
	result, err := c.call(ctx, "host.delete", hostIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete hosts")
	}
	return bulkIDs(result, "host.delete", "hostids")
}

// normalizeHost folds the version-dependent JSON spellings into the
// canonical fields and enforces the "no proxy means absent" rule.
func (c *Client) normalizeHost(h *Host) {
	if h.ProxyID == "" && h.ProxyHostID != "" {
		h.ProxyID = h.ProxyHostID
	}
	h.ProxyHostID = ""
	// "0" is the server's spelling for "no proxy"; nobody downstream
	// should ever see it.
	if h.ProxyID == "0" {
		h.ProxyID = ""
	}
	if h.ProxyGroupID == "0" {
		h.ProxyGroupID = ""
	}

	if len(h.Groups) == 0 && len(h.HostGroups) > 0 {
		h.Groups = h.HostGroups
	}
	h.HostGroups = nil

	if h.Host == "" && h.HostID != "" {
		// A host without a technical name is server-side data damage;
		// pass it through but say so.
		c.log.Warn("host has an empty technical name", slog.String("hostid", h.HostID))
	}
}
