package zabbix

import "context"

// Template groups became their own entity in Zabbix 6.2. On older
// servers every operation here routes to the hostgroup.* endpoints, so
// callers never branch on the server version themselves.

// TemplateGroupGetOptions filters templategroup.get.
type TemplateGroupGetOptions struct {
	NamesOrIDs      []string
	SelectTemplates bool
}

// GetTemplateGroups returns template groups matching the options.
func (c *Client) GetTemplateGroups(ctx context.Context, opts TemplateGroupGetOptions) ([]TemplateGroup, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	method := "templategroup.get"
	if !c.traits.SupportsTemplateGroups {
		method = "hostgroup.get"
	}

	params := map[string]any{
		"output": []string{"groupid", "name"},
	}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "groupids", "name")
	if opts.SelectTemplates {
		params["selectTemplates"] = []string{"templateid", "host", "name"}
	}

	var groups []TemplateGroup
	if err := c.callResult(ctx, method, params, &groups); err != nil {
		return nil, wrapCall(err, "failed to get template groups")
	}
	return groups, nil
}

// GetTemplateGroup returns exactly one template group by name or id.
func (c *Client) GetTemplateGroup(ctx context.Context, nameOrID string, opts TemplateGroupGetOptions) (*TemplateGroup, error) {
	opts.NamesOrIDs = []string{nameOrID}
	groups, err := c.GetTemplateGroups(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, notFound("template group %q not found", nameOrID)
	}
	return &groups[0], nil
}

// CreateTemplateGroup creates a template group and returns its new id.
func (c *Client) CreateTemplateGroup(ctx context.Context, name string) (string, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return "", err
	}

	method, key := "templategroup.create", "groupids"
	if !c.traits.SupportsTemplateGroups {
		method = "hostgroup.create"
	}

	result, err := c.call(ctx, method, map[string]any{"name": name})
	if err != nil {
		return "", wrapCall(err, "failed to create template group %q", name)
	}
	ids, err := bulkIDs(result, method, key)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// DeleteTemplateGroups deletes template groups by id.
func (c *Client) DeleteTemplateGroups(ctx context.Context, groupIDs []string) ([]string, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	method := "templategroup.delete"
	if !c.traits.SupportsTemplateGroups {
		method = "hostgroup.delete"
	}

	result, err := c.call(ctx, method, groupIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete template groups")
	}
	return bulkIDs(result, method, "groupids")
}
