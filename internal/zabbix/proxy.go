package zabbix

import (
	"context"
	"log/slog"

	"github.com/kidoz/zbxctl/internal/errs"
)

// ProxyGetOptions filters proxy.get.
type ProxyGetOptions struct {
	NamesOrIDs  []string
	SelectHosts bool
}

// GetProxies returns proxies matching the options. The name property
// is "host" before 7.0; the result is normalised so callers only read
// Name.
func (c *Client) GetProxies(ctx context.Context, opts ProxyGetOptions) ([]Proxy, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	output := []string{"proxyid", c.traits.ProxyNameField}
	if c.traits.SupportsProxyGroups {
		output = append(output, "operating_mode", "address", "local_address", "proxy_groupid", "version", "compatibility")
	} else {
		output = append(output, "status")
	}

	params := map[string]any{"output": output}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "proxyids", c.traits.ProxyNameField)
	if opts.SelectHosts {
		params["selectHosts"] = []string{"hostid", "host", "name"}
	}

	var proxies []Proxy
	if err := c.callResult(ctx, "proxy.get", params, &proxies); err != nil {
		return nil, wrapCall(err, "failed to get proxies")
	}

	for i := range proxies {
		normalizeProxy(&proxies[i])
	}
	return proxies, nil
}

// GetProxy returns exactly one proxy by name or id.
func (c *Client) GetProxy(ctx context.Context, nameOrID string, opts ProxyGetOptions) (*Proxy, error) {
	opts.NamesOrIDs = []string{nameOrID}
	proxies, err := c.GetProxies(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(proxies) == 0 {
		return nil, notFound("proxy %q not found", nameOrID)
	}
	return &proxies[0], nil
}

// GetProxyGroups returns proxy groups matching the names or ids. Proxy
// groups exist from Zabbix 7.0.
func (c *Client) GetProxyGroups(ctx context.Context, namesOrIDs []string) ([]ProxyGroup, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}
	if !c.traits.SupportsProxyGroups {
		return nil, errs.Newf(errs.KindCall, "proxy groups require Zabbix 7.0, server is %s", c.version)
	}

	params := map[string]any{
		"output":        "extend",
		"selectProxies": []string{"proxyid", "name"},
	}
	applyNameOrIDFilter(params, namesOrIDs, "proxy_groupids", "name")

	var groups []ProxyGroup
	if err := c.callResult(ctx, "proxygroup.get", params, &groups); err != nil {
		return nil, wrapCall(err, "failed to get proxy groups")
	}

	for i := range groups {
		c.normalizeProxyGroup(&groups[i])
	}
	return groups, nil
}

// SetProxyGroup moves a proxy into a proxy group (≥7.0). localAddress
// is the address the group's proxies reach this proxy at; the API
// requires it for grouped proxies. An empty groupID removes the proxy
// from its group.
func (c *Client) SetProxyGroup(ctx context.Context, proxyID, groupID, localAddress string) error {
	if err := c.ensureVersion(ctx); err != nil {
		return err
	}
	if !c.traits.SupportsProxyGroups {
		return errs.Newf(errs.KindCall, "proxy groups require Zabbix 7.0, server is %s", c.version)
	}

	if groupID == "" {
		groupID = "0"
	}
	params := map[string]any{
		"proxyid":       proxyID,
		"proxy_groupid": groupID,
	}
	if localAddress != "" {
		params["local_address"] = localAddress
	}

	result, err := c.call(ctx, "proxy.update", params)
	if err != nil {
		return wrapCall(err, "failed to change proxy group of proxy %q", proxyID)
	}
	_, err = bulkIDs(result, "proxy.update", "proxyids")
	return err
}

func normalizeProxy(p *Proxy) {
	if p.Name == "" && p.Host != "" {
		p.Name = p.Host
	}
	p.Host = ""
	if p.ProxyGroupID == "0" {
		p.ProxyGroupID = ""
	}
}

// normalizeProxyGroup coerces a non-numeric min_online to "1". Some
// server builds return a localized placeholder string here.
func (c *Client) normalizeProxyGroup(g *ProxyGroup) {
	if g.MinOnline != "" && !isID(g.MinOnline) {
		c.log.Warn("proxy group has a non-numeric min_online, using 1",
			slog.String("proxy_groupid", g.ProxyGroupID),
			slog.String("min_online", g.MinOnline))
		g.MinOnline = "1"
	}
}
