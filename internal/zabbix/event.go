package zabbix

import (
	"context"
	"time"
)

// event.acknowledge action bits.
const (
	eventActionAcknowledge = 2
	eventActionAddMessage  = 4
)

// EventGetOptions filters event.get. Zero time bounds are omitted.
type EventGetOptions struct {
	ObjectIDs []string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// GetEvents returns trigger events, newest first.
func (c *Client) GetEvents(ctx context.Context, opts EventGetOptions) ([]Event, error) {
	params := map[string]any{
		"output":    "extend",
		"sortfield": []string{"clock", "eventid"},
		"sortorder": "DESC",
	}
	if len(opts.ObjectIDs) > 0 {
		params["objectids"] = opts.ObjectIDs
	}
	if !opts.Since.IsZero() {
		params["time_from"] = opts.Since.Unix()
	}
	if !opts.Until.IsZero() {
		params["time_till"] = opts.Until.Unix()
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}

	var events []Event
	if err := c.callResult(ctx, "event.get", params, &events); err != nil {
		return nil, wrapCall(err, "failed to get events")
	}
	return events, nil
}

// AcknowledgeEvent acknowledges an event, attaching a message when one
// is given, and returns the affected event ids.
func (c *Client) AcknowledgeEvent(ctx context.Context, eventID, message string) ([]string, error) {
	action := eventActionAcknowledge
	params := map[string]any{
		"eventids": eventID,
	}
	if message != "" {
		action |= eventActionAddMessage
		params["message"] = message
	}
	params["action"] = action

	result, err := c.call(ctx, "event.acknowledge", params)
	if err != nil {
		return nil, wrapCall(err, "failed to acknowledge event %q", eventID)
	}
	return bulkIDs(result, "event.acknowledge", "eventids")
}

// TriggerGetOptions filters trigger.get.
type TriggerGetOptions struct {
	TriggerIDs  []string
	HostIDs     []string
	GroupIDs    []string
	Description string
	// ActiveOnly restricts the result to triggers in problem state.
	ActiveOnly  bool
	SelectHosts bool
	Limit       int
}

// GetTriggers returns triggers matching the options.
func (c *Client) GetTriggers(ctx context.Context, opts TriggerGetOptions) ([]Trigger, error) {
	params := map[string]any{
		"output": []string{"triggerid", "description", "expression", "priority", "status", "value", "lastchange"},
	}
	if len(opts.TriggerIDs) > 0 {
		params["triggerids"] = opts.TriggerIDs
	}
	if len(opts.HostIDs) > 0 {
		params["hostids"] = opts.HostIDs
	}
	if len(opts.GroupIDs) > 0 {
		params["groupids"] = opts.GroupIDs
	}
	if opts.Description != "" {
		params["search"] = map[string]any{"description": opts.Description}
		params["searchWildcardsEnabled"] = true
	}
	if opts.ActiveOnly {
		params["filter"] = map[string]any{"value": "1"}
	}
	if opts.SelectHosts {
		params["selectHosts"] = []string{"hostid", "host", "name"}
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}

	var triggers []Trigger
	if err := c.callResult(ctx, "trigger.get", params, &triggers); err != nil {
		return nil, wrapCall(err, "failed to get triggers")
	}
	return triggers, nil
}
