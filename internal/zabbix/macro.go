package zabbix

import (
	"context"
	"fmt"
	"strings"
)

// CanonicalMacroName wraps a bare macro name in the {$NAME} form the
// API expects; an already-wrapped name passes through uppercased.
func CanonicalMacroName(name string) string {
	inner := strings.ToUpper(strings.TrimSpace(name))
	inner = strings.TrimPrefix(inner, "{$")
	inner = strings.TrimSuffix(inner, "}")
	return fmt.Sprintf("{$%s}", inner)
}

// GetMacros returns the user macros of a host. An empty hostID returns
// macros across all hosts.
func (c *Client) GetMacros(ctx context.Context, hostID, macroName string) ([]Macro, error) {
	params := map[string]any{
		"output": "extend",
	}
	if hostID != "" {
		params["hostids"] = hostID
	}
	if macroName != "" {
		params["filter"] = map[string]any{"macro": CanonicalMacroName(macroName)}
	}

	var macros []Macro
	if err := c.callResult(ctx, "usermacro.get", params, &macros); err != nil {
		return nil, wrapCall(err, "failed to get macros")
	}
	return macros, nil
}

// CreateMacro creates a host-scoped user macro and returns its new id.
func (c *Client) CreateMacro(ctx context.Context, m Macro) (string, error) {
	params := map[string]any{
		"hostid": m.HostID,
		"macro":  CanonicalMacroName(m.Macro),
		"value":  m.Value,
	}
	if m.Type != "" {
		params["type"] = m.Type
	}
	if m.Description != "" {
		params["description"] = m.Description
	}

	result, err := c.call(ctx, "usermacro.create", params)
	if err != nil {
		return "", wrapCall(err, "failed to create macro %q on host %q", m.Macro, m.HostID)
	}
	ids, err := bulkIDs(result, "usermacro.create", "hostmacroids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// UpdateMacro changes the value of a host-scoped user macro.
func (c *Client) UpdateMacro(ctx context.Context, hostMacroID, value string) error {
	params := map[string]any{
		"hostmacroid": hostMacroID,
		"value":       value,
	}
	result, err := c.call(ctx, "usermacro.update", params)
	if err != nil {
		return wrapCall(err, "failed to update macro %q", hostMacroID)
	}
	_, err = bulkIDs(result, "usermacro.update", "hostmacroids")
	return err
}

// DeleteMacros deletes host-scoped user macros by id.
func (c *Client) DeleteMacros(ctx context.Context, hostMacroIDs []string) ([]string, error) {
	result, err := c.call(ctx, "usermacro.delete", hostMacroIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete macros")
	}
	return bulkIDs(result, "usermacro.delete", "hostmacroids")
}

// GetGlobalMacros returns global user macros, optionally filtered by
// name.
func (c *Client) GetGlobalMacros(ctx context.Context, macroName string) ([]GlobalMacro, error) {
	params := map[string]any{
		"output":      "extend",
		"globalmacro": true,
	}
	if macroName != "" {
		params["filter"] = map[string]any{"macro": CanonicalMacroName(macroName)}
	}

	var macros []GlobalMacro
	if err := c.callResult(ctx, "usermacro.get", params, &macros); err != nil {
		return nil, wrapCall(err, "failed to get global macros")
	}
	return macros, nil
}

// CreateGlobalMacro creates a global user macro and returns its new id.
func (c *Client) CreateGlobalMacro(ctx context.Context, m GlobalMacro) (string, error) {
	params := map[string]any{
		"macro": CanonicalMacroName(m.Macro),
		"value": m.Value,
	}
	if m.Type != "" {
		params["type"] = m.Type
	}
	if m.Description != "" {
		params["description"] = m.Description
	}

	result, err := c.call(ctx, "usermacro.createglobal", params)
	if err != nil {
		return "", wrapCall(err, "failed to create global macro %q", m.Macro)
	}
	ids, err := bulkIDs(result, "usermacro.createglobal", "globalmacroids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// UpdateGlobalMacro changes the value of a global user macro.
func (c *Client) UpdateGlobalMacro(ctx context.Context, globalMacroID, value string) error {
	params := map[string]any{
		"globalmacroid": globalMacroID,
		"value":         value,
	}
	result, err := c.call(ctx, "usermacro.updateglobal", params)
	if err != nil {
		return wrapCall(err, "failed to update global macro %q", globalMacroID)
	}
	_, err = bulkIDs(result, "usermacro.updateglobal", "globalmacroids")
	return err
}

// DeleteGlobalMacros deletes global user macros by id.
func (c *Client) DeleteGlobalMacros(ctx context.Context, globalMacroIDs []string) ([]string, error) {
	result, err := c.call(ctx, "usermacro.deleteglobal", globalMacroIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete global macros")
	}
	return bulkIDs(result, "usermacro.deleteglobal", "globalmacroids")
}
