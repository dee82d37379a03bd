package zabbix

import "context"

// GetHostInterfaces returns the interfaces of a host.
func (c *Client) GetHostInterfaces(ctx context.Context, hostID string) ([]HostInterface, error) {
	params := map[string]any{
		"output":  "extend",
		"hostids": hostID,
	}
	var interfaces []HostInterface
	if err := c.callResult(ctx, "hostinterface.get", params, &interfaces); err != nil {
		return nil, wrapCall(err, "failed to get interfaces of host %q", hostID)
	}
	return interfaces, nil
}

// CreateHostInterface creates an interface and returns its new id. The
// HostID field of the argument selects the host.
func (c *Client) CreateHostInterface(ctx context.Context, iface HostInterface) (string, error) {
	result, err := c.call(ctx, "hostinterface.create", iface)
	if err != nil {
		return "", wrapCall(err, "failed to create interface on host %q", iface.HostID)
	}
	ids, err := bulkIDs(result, "hostinterface.create", "interfaceids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// UpdateHostInterface applies hostinterface.update properties to an
// interface.
func (c *Client) UpdateHostInterface(ctx context.Context, interfaceID string, properties map[string]any) error {
	params := map[string]any{"interfaceid": interfaceID}
	for k, v := range properties {
		params[k] = v
	}
	result, err := c.call(ctx, "hostinterface.update", params)
	if err != nil {
		return wrapCall(err, "failed to update interface %q", interfaceID)
	}
	_, err = bulkIDs(result, "hostinterface.update", "interfaceids")
	return err
}

// DeleteHostInterfaces deletes interfaces by id.
func (c *Client) DeleteHostInterfaces(ctx context.Context, interfaceIDs []string) ([]string, error) {
	result, err := c.call(ctx, "hostinterface.delete", interfaceIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete interfaces")
	}
	return bulkIDs(result, "hostinterface.delete", "interfaceids")
}
