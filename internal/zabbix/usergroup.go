package zabbix

import "context"

// UsergroupGetOptions filters usergroup.get.
type UsergroupGetOptions struct {
	NamesOrIDs   []string
	SelectUsers  bool
	SelectRights bool
}

// GetUsergroups returns user groups matching the options. Before 6.2
// permissions come back as a single rights list; from 6.2 as the split
// host/template group collections. Both land in the Usergroup struct
// untouched.
func (c *Client) GetUsergroups(ctx context.Context, opts UsergroupGetOptions) ([]Usergroup, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	params := map[string]any{
		"output": []string{"usrgrpid", "name", "gui_access", "users_status"},
	}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "usrgrpids", "name")
	if opts.SelectUsers {
		params["selectUsers"] = []string{"userid", c.traits.UserObjectField, "name", "surname"}
	}
	if opts.SelectRights {
		for _, sel := range c.traits.UsergroupRightsSelects {
			params[sel] = "extend"
		}
	}

	var groups []Usergroup
	if err := c.callResult(ctx, "usergroup.get", params, &groups); err != nil {
		return nil, wrapCall(err, "failed to get user groups")
	}

	for i := range groups {
		for j := range groups[i].Users {
			normalizeUser(&groups[i].Users[j])
		}
	}
	return groups, nil
}

// GetUsergroup returns exactly one user group by name or id.
func (c *Client) GetUsergroup(ctx context.Context, nameOrID string, opts UsergroupGetOptions) (*Usergroup, error) {
	opts.NamesOrIDs = []string{nameOrID}
	groups, err := c.GetUsergroups(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, notFound("user group %q not found", nameOrID)
	}
	return &groups[0], nil
}

// CreateUsergroup creates a user group and returns its new id.
// guiAccess and status use the wire enum strings ("0", "1").
func (c *Client) CreateUsergroup(ctx context.Context, name, guiAccess, usersStatus string) (string, error) {
	params := map[string]any{"name": name}
	if guiAccess != "" {
		params["gui_access"] = guiAccess
	}
	if usersStatus != "" {
		params["users_status"] = usersStatus
	}

	result, err := c.call(ctx, "usergroup.create", params)
	if err != nil {
		return "", wrapCall(err, "failed to create user group %q", name)
	}
	ids, err := bulkIDs(result, "usergroup.create", "usrgrpids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddUsersToGroups adds users to user groups, preserving each group's
// existing member list (usergroup.update replaces it wholesale).
func (c *Client) AddUsersToGroups(ctx context.Context, userIDs, usergroupIDs []string) error {
	for _, gid := range usergroupIDs {
		group, err := c.GetUsergroup(ctx, gid, UsergroupGetOptions{SelectUsers: true})
		if err != nil {
			return err
		}

		merged := map[string]bool{}
		for _, u := range group.Users {
			merged[u.UserID] = true
		}
		for _, uid := range userIDs {
			merged[uid] = true
		}
		all := make([]string, 0, len(merged))
		for uid := range merged {
			all = append(all, uid)
		}

		if err := c.updateUsergroupUsers(ctx, gid, all); err != nil {
			return err
		}
	}
	return nil
}

// RemoveUsersFromGroups removes users from user groups.
func (c *Client) RemoveUsersFromGroups(ctx context.Context, userIDs, usergroupIDs []string) error {
	drop := map[string]bool{}
	for _, uid := range userIDs {
		drop[uid] = true
	}

	for _, gid := range usergroupIDs {
		group, err := c.GetUsergroup(ctx, gid, UsergroupGetOptions{SelectUsers: true})
		if err != nil {
			return err
		}

		var kept []string
		for _, u := range group.Users {
			if !drop[u.UserID] {
				kept = append(kept, u.UserID)
			}
		}

		if err := c.updateUsergroupUsers(ctx, gid, kept); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) updateUsergroupUsers(ctx context.Context, usergroupID string, userIDs []string) error {
	params := map[string]any{
		"usrgrpid": usergroupID,
		"userids":  userIDs,
	}
	result, err := c.call(ctx, "usergroup.update", params)
	if err != nil {
		return wrapCall(err, "failed to update members of user group %q", usergroupID)
	}
	_, err = bulkIDs(result, "usergroup.update", "usrgrpids")
	return err
}

// UpdateUsergroupRights grants a permission level on host or template
// groups. Before 6.2 both kinds share the single rights list; from 6.2
// they are separate properties, and the untouched kind's existing
// rights are preserved.
func (c *Client) UpdateUsergroupRights(ctx context.Context, usergroupID string, groupIDs []string, permission string, templateGroups bool) error {
	if err := c.ensureVersion(ctx); err != nil {
		return err
	}

	newRights := make([]Right, len(groupIDs))
	for i, gid := range groupIDs {
		newRights[i] = Right{ID: gid, Permission: permission}
	}

	group, err := c.GetUsergroup(ctx, usergroupID, UsergroupGetOptions{SelectRights: true})
	if err != nil {
		return err
	}

	params := map[string]any{"usrgrpid": usergroupID}
	if !c.traits.SupportsTemplateGroups {
		params["rights"] = mergeRights(group.Rights, newRights)
	} else if templateGroups {
		params["templategroup_rights"] = mergeRights(group.TemplateGroupRights, newRights)
	} else {
		params["hostgroup_rights"] = mergeRights(group.HostGroupRights, newRights)
	}

	result, err := c.call(ctx, "usergroup.update", params)
	if err != nil {
		return wrapCall(err, "failed to update rights of user group %q", usergroupID)
	}
	_, err = bulkIDs(result, "usergroup.update", "usrgrpids")
	return err
}

// mergeRights overlays updates on existing rights; an update for a
// group id already present replaces its permission.
func mergeRights(existing, updates []Right) []Right {
	byID := map[string]int{}
	merged := make([]Right, 0, len(existing)+len(updates))
	for _, r := range existing {
		byID[r.ID] = len(merged)
		merged = append(merged, r)
	}
	for _, r := range updates {
		if i, ok := byID[r.ID]; ok {
			merged[i] = r
			continue
		}
		byID[r.ID] = len(merged)
		merged = append(merged, r)
	}
	return merged
}
