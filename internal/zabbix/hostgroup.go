package zabbix

import "context"

// HostGroupGetOptions filters hostgroup.get.
type HostGroupGetOptions struct {
	NamesOrIDs  []string
	SelectHosts bool
}

// GetHostGroups returns host groups matching the options.
func (c *Client) GetHostGroups(ctx context.Context, opts HostGroupGetOptions) ([]HostGroup, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	params := map[string]any{
		"output": []string{"groupid", "name", "flags"},
	}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "groupids", "name")
	if opts.SelectHosts {
		params["selectHosts"] = []string{"hostid", "host", "name"}
	}

	var groups []HostGroup
	if err := c.callResult(ctx, "hostgroup.get", params, &groups); err != nil {
		return nil, wrapCall(err, "failed to get host groups")
	}
	return groups, nil
}

// GetHostGroup returns exactly one host group by name or id.
func (c *Client) GetHostGroup(ctx context.Context, nameOrID string, opts HostGroupGetOptions) (*HostGroup, error) {
	opts.NamesOrIDs = []string{nameOrID}
	groups, err := c.GetHostGroups(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, notFound("host group %q not found", nameOrID)
	}
	return &groups[0], nil
}

// CreateHostGroup creates a host group and returns its new id.
func (c *Client) CreateHostGroup(ctx context.Context, name string) (string, error) {
	result, err := c.call(ctx, "hostgroup.create", map[string]any{"name": name})
	if err != nil {
		return "", wrapCall(err, "failed to create host group %q", name)
	}
	ids, err := bulkIDs(result, "hostgroup.create", "groupids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// DeleteHostGroups deletes host groups by id and returns the deleted
// ids.
func (c *Client) DeleteHostGroups(ctx context.Context, groupIDs []string) ([]string, error) {
	result, err := c.call(ctx, "hostgroup.delete", groupIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete host groups")
	}
	return bulkIDs(result, "hostgroup.delete", "groupids")
}

// AddHostsToGroups adds hosts to host groups via hostgroup.massadd.
func (c *Client) AddHostsToGroups(ctx context.Context, hostIDs, groupIDs []string) error {
	params := map[string]any{
		"groups": idRefs("groupid", groupIDs),
		"hosts":  idRefs("hostid", hostIDs),
	}
	result, err := c.call(ctx, "hostgroup.massadd", params)
	if err != nil {
		return wrapCall(err, "failed to add hosts to host groups")
	}
	_, err = bulkIDs(result, "hostgroup.massadd", "groupids")
	return err
}

// RemoveHostsFromGroups removes hosts from host groups via
// hostgroup.massremove.
func (c *Client) RemoveHostsFromGroups(ctx context.Context, hostIDs, groupIDs []string) error {
	params := map[string]any{
		"groupids": groupIDs,
		"hostids":  hostIDs,
	}
	result, err := c.call(ctx, "hostgroup.massremove", params)
	if err != nil {
		return wrapCall(err, "failed to remove hosts from host groups")
	}
	_, err = bulkIDs(result, "hostgroup.massremove", "groupids")
	return err
}
