package zabbix

import "context"

// GroupCache holds name↔id maps for host groups and template groups.
// It never talks to the network on lookup: Populate fills it with one
// hostgroup.get (plus one templategroup.get on ≥6.2) and callers that
// mutate groups call Invalidate themselves.
type GroupCache struct {
	client *Client

	hostGroupNameToID map[string]string
	hostGroupIDToName map[string]string

	templateGroupNameToID map[string]string
	templateGroupIDToName map[string]string
}

// NewGroupCache creates an empty cache bound to a client.
func NewGroupCache(client *Client) *GroupCache {
	return &GroupCache{client: client}
}

// Populate fills both maps from the server, replacing any previous
// content.
func (gc *GroupCache) Populate(ctx context.Context) error {
	hostGroups, err := gc.client.GetHostGroups(ctx, HostGroupGetOptions{})
	if err != nil {
		return err
	}
	gc.hostGroupNameToID = make(map[string]string, len(hostGroups))
	gc.hostGroupIDToName = make(map[string]string, len(hostGroups))
	for _, g := range hostGroups {
		gc.hostGroupNameToID[g.Name] = g.GroupID
		gc.hostGroupIDToName[g.GroupID] = g.Name
	}

	templateGroups, err := gc.client.GetTemplateGroups(ctx, TemplateGroupGetOptions{})
	if err != nil {
		return err
	}
	gc.templateGroupNameToID = make(map[string]string, len(templateGroups))
	gc.templateGroupIDToName = make(map[string]string, len(templateGroups))
	for _, g := range templateGroups {
		gc.templateGroupNameToID[g.Name] = g.GroupID
		gc.templateGroupIDToName[g.GroupID] = g.Name
	}
	return nil
}

// Invalidate empties the cache. The next Populate refills it.
func (gc *GroupCache) Invalidate() {
	gc.hostGroupNameToID = nil
	gc.hostGroupIDToName = nil
	gc.templateGroupNameToID = nil
	gc.templateGroupIDToName = nil
}

// HostGroupID looks up a host group id by name.
func (gc *GroupCache) HostGroupID(name string) (string, bool) {
	id, ok := gc.hostGroupNameToID[name]
	return id, ok
}

// HostGroupName looks up a host group name by id.
func (gc *GroupCache) HostGroupName(id string) (string, bool) {
	name, ok := gc.hostGroupIDToName[id]
	return name, ok
}

// TemplateGroupID looks up a template group id by name.
func (gc *GroupCache) TemplateGroupID(name string) (string, bool) {
	id, ok := gc.templateGroupNameToID[name]
	return id, ok
}

// TemplateGroupName looks up a template group name by id.
func (gc *GroupCache) TemplateGroupName(id string) (string, bool) {
	name, ok := gc.templateGroupIDToName[id]
	return name, ok
}
