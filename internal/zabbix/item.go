package zabbix

import "context"

// GetItems returns the items of a host, optionally narrowed by a key
// pattern (wildcards allowed).
func (c *Client) GetItems(ctx context.Context, hostID, keyPattern string) ([]Item, error) {
	params := map[string]any{
		"output":  []string{"itemid", "hostid", "name", "key_", "lastvalue", "value_type", "state"},
		"hostids": hostID,
	}
	if keyPattern != "" {
		params["search"] = map[string]any{"key_": keyPattern}
		params["searchWildcardsEnabled"] = true
	}

	var items []Item
	if err := c.callResult(ctx, "item.get", params, &items); err != nil {
		return nil, wrapCall(err, "failed to get items of host %q", hostID)
	}
	return items, nil
}

// GetItemValue returns the last value of the item with the exact key on
// the given host, or NotFound when the host has no such item.
func (c *Client) GetItemValue(ctx context.Context, hostID, itemKey string) (string, error) {
	items, err := c.GetItems(ctx, hostID, itemKey)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.Key == itemKey {
			return item.Value, nil
		}
	}
	return "", notFound("host %q has no item with key %q", hostID, itemKey)
}
