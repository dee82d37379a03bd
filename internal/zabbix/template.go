package zabbix

import "context"

// TemplateGetOptions filters template.get.
type TemplateGetOptions struct {
	NamesOrIDs     []string
	SelectHosts    bool
	SelectParents  bool
	SelectChildren bool
	GroupIDs       []string
	Limit          int
}

// GetTemplates returns templates matching the options.
func (c *Client) GetTemplates(ctx context.Context, opts TemplateGetOptions) ([]Template, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	params := map[string]any{
		"output": []string{"templateid", "host", "name"},
	}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "templateids", "host")
	if len(opts.GroupIDs) > 0 {
		params["groupids"] = opts.GroupIDs
	}
	if opts.SelectHosts {
		params["selectHosts"] = []string{"hostid", "host", "name"}
	}
	if opts.SelectParents {
		params["selectParentTemplates"] = []string{"templateid", "host", "name"}
	}
	if opts.SelectChildren {
		params["selectTemplates"] = []string{"templateid", "host", "name"}
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}

	var templates []Template
	if err := c.callResult(ctx, "template.get", params, &templates); err != nil {
		return nil, wrapCall(err, "failed to get templates")
	}
	return templates, nil
}

// GetTemplate returns exactly one template by technical name or id.
func (c *Client) GetTemplate(ctx context.Context, nameOrID string, opts TemplateGetOptions) (*Template, error) {
	opts.NamesOrIDs = []string{nameOrID}
	templates, err := c.GetTemplates(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, notFound("template %q not found", nameOrID)
	}
	return &templates[0], nil
}

// LinkTemplatesToHosts links templates to hosts via template.massadd.
func (c *Client) LinkTemplatesToHosts(ctx context.Context, templateIDs, hostIDs []string) error {
	params := map[string]any{
		"templates": idRefs("templateid", templateIDs),
		"hosts":     idRefs("hostid", hostIDs),
	}
	result, err := c.call(ctx, "template.massadd", params)
	if err != nil {
		return wrapCall(err, "failed to link templates to hosts")
	}
	_, err = bulkIDs(result, "template.massadd", "templateids")
	return err
}

// UnlinkTemplatesFromHosts unlinks templates from hosts. With clear set
// the items and triggers the template brought along are deleted from
// the hosts too (the templateids_clear semantics).
func (c *Client) UnlinkTemplatesFromHosts(ctx context.Context, templateIDs, hostIDs []string, clear bool) error {
	key := "templateids"
	if clear {
		key = "templateids_clear"
	}
	params := map[string]any{
		"hostids": hostIDs,
		key:       templateIDs,
	}
	result, err := c.call(ctx, "host.massremove", params)
	if err != nil {
		return wrapCall(err, "failed to unlink templates from hosts")
	}
	_, err = bulkIDs(result, "host.massremove", "hostids")
	return err
}

// AddTemplatesToGroups adds templates to template groups via
// template.massadd. The group reference shape is the same on every
// version; only the group entity behind it differs.
func (c *Client) AddTemplatesToGroups(ctx context.Context, templateIDs, groupIDs []string) error {
	params := map[string]any{
		"templates": idRefs("templateid", templateIDs),
		"groups":    idRefs("groupid", groupIDs),
	}
	result, err := c.call(ctx, "template.massadd", params)
	if err != nil {
		return wrapCall(err, "failed to add templates to groups")
	}
	_, err = bulkIDs(result, "template.massadd", "templateids")
	return err
}

// RemoveTemplatesFromGroups removes templates from template groups via
// template.massremove.
func (c *Client) RemoveTemplatesFromGroups(ctx context.Context, templateIDs, groupIDs []string) error {
	params := map[string]any{
		"templateids": templateIDs,
		"groupids":    groupIDs,
	}
	result, err := c.call(ctx, "template.massremove", params)
	if err != nil {
		return wrapCall(err, "failed to remove templates from groups")
	}
	_, err = bulkIDs(result, "template.massremove", "templateids")
	return err
}
