package zabbix

import (
	"context"
	"time"
)

// Maintenance data collection modes.
const (
	MaintenanceWithData = "0"
	MaintenanceNoData   = "1"
)

// MaintenanceGetOptions filters maintenance.get.
type MaintenanceGetOptions struct {
	NamesOrIDs   []string
	SelectHosts  bool
	SelectGroups bool
}

// GetMaintenances returns maintenance windows matching the options.
func (c *Client) GetMaintenances(ctx context.Context, opts MaintenanceGetOptions) ([]Maintenance, error) {
	if err := c.ensureVersion(ctx); err != nil {
		return nil, err
	}

	params := map[string]any{
		"output":            "extend",
		"selectTimeperiods": "extend",
	}
	applyNameOrIDFilter(params, opts.NamesOrIDs, "maintenanceids", "name")
	if opts.SelectHosts {
		params["selectHosts"] = []string{"hostid", "host", "name"}
	}
	if opts.SelectGroups {
		// The property was renamed from groups to hostgroups in 6.2.
		if c.traits.SupportsTemplateGroups {
			params["selectHostGroups"] = []string{"groupid", "name"}
		} else {
			params["selectGroups"] = []string{"groupid", "name"}
		}
	}

	var maintenances []Maintenance
	if err := c.callResult(ctx, "maintenance.get", params, &maintenances); err != nil {
		return nil, wrapCall(err, "failed to get maintenances")
	}

	for i := range maintenances {
		m := &maintenances[i]
		if len(m.Groups) == 0 && len(m.LegacyGroups) > 0 {
			m.Groups = m.LegacyGroups
		}
		m.LegacyGroups = nil
	}
	return maintenances, nil
}

// GetMaintenance returns exactly one maintenance window by name or id.
func (c *Client) GetMaintenance(ctx context.Context, nameOrID string, opts MaintenanceGetOptions) (*Maintenance, error) {
	opts.NamesOrIDs = []string{nameOrID}
	maintenances, err := c.GetMaintenances(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(maintenances) == 0 {
		return nil, notFound("maintenance %q not found", nameOrID)
	}
	return &maintenances[0], nil
}

// MaintenanceCreateParams carries the maintenance.create arguments. At
// least one of HostIDs and GroupIDs must be set; the window spans
// ActiveSince to ActiveTill with one one-time period covering it.
type MaintenanceCreateParams struct {
	Name        string
	Description string
	HostIDs     []string
	GroupIDs    []string
	ActiveSince time.Time
	ActiveTill  time.Time
	// DataCollection is MaintenanceWithData or MaintenanceNoData.
	DataCollection string
}

// CreateMaintenance creates a maintenance window and returns its new
// id.
func (c *Client) CreateMaintenance(ctx context.Context, p MaintenanceCreateParams) (string, error) {
	since := p.ActiveSince.Unix()
	till := p.ActiveTill.Unix()

	params := map[string]any{
		"name":         p.Name,
		"active_since": since,
		"active_till":  till,
		"timeperiods": []map[string]any{
			{
				// Type 0 is a one-time period spanning the whole window.
				"timeperiod_type": 0,
				"start_date":      since,
				"period":          till - since,
			},
		},
	}
	if p.Description != "" {
		params["description"] = p.Description
	}
	if p.DataCollection != "" {
		params["maintenance_type"] = p.DataCollection
	}
	if len(p.HostIDs) > 0 {
		params["hostids"] = p.HostIDs
	}
	if len(p.GroupIDs) > 0 {
		params["groupids"] = p.GroupIDs
	}

	result, err := c.call(ctx, "maintenance.create", params)
	if err != nil {
		return "", wrapCall(err, "failed to create maintenance %q", p.Name)
	}
	ids, err := bulkIDs(result, "maintenance.create", "maintenanceids")
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// DeleteMaintenances deletes maintenance windows by id.
func (c *Client) DeleteMaintenances(ctx context.Context, maintenanceIDs []string) ([]string, error) {
	result, err := c.call(ctx, "maintenance.delete", maintenanceIDs)
	if err != nil {
		return nil, wrapCall(err, "failed to delete maintenances")
	}
	return bulkIDs(result, "maintenance.delete", "maintenanceids")
}
