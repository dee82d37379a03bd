package zabbix

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/kidoz/zbxctl/internal/errs"
)

// Host represents a Zabbix host. Zabbix returns every ID as a numeric
// string and they are kept that way. The proxy pointer and the group
// collection come under different JSON names depending on the server
// version; normalizeHost folds them into ProxyID and Groups.
type Host struct {
	HostID            string          `json:"hostid"`
	Host              string          `json:"host"`
	Name              string          `json:"name,omitempty"`
	Status            string          `json:"status,omitempty"`
	MaintenanceStatus string          `json:"maintenance_status,omitempty"`
	ProxyID           string          `json:"proxyid,omitempty"`
	ProxyHostID       string          `json:"proxy_hostid,omitempty"`
	ProxyGroupID      string          `json:"proxy_groupid,omitempty"`
	MonitoredBy       string          `json:"monitored_by,omitempty"`
	Available         string          `json:"available,omitempty"`
	ActiveAvailable   string          `json:"active_available,omitempty"`
	Groups            []HostGroup     `json:"groups,omitempty"`
	HostGroups        []HostGroup     `json:"hostgroups,omitempty"`
	Templates         []Template      `json:"parentTemplates,omitempty"`
	Interfaces        []HostInterface `json:"interfaces,omitempty"`
	Macros            []Macro         `json:"macros,omitempty"`
	Inventory         HostInventory   `json:"inventory,omitempty"`
}

// Availability returns whichever availability field the server sent.
func (h *Host) Availability() string {
	if h.ActiveAvailable != "" {
		return h.ActiveAvailable
	}
	return h.Available
}

// HostInventory tolerates the Zabbix quirk of returning an empty array
// instead of an empty object when a host has no inventory.
type HostInventory map[string]string

func (inv *HostInventory) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*inv = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*inv = m
	return nil
}

// HostInterface represents a Zabbix host interface.
type HostInterface struct {
	InterfaceID string          `json:"interfaceid,omitempty"`
	HostID      string          `json:"hostid,omitempty"`
	IP          string          `json:"ip"`
	DNS         string          `json:"dns"`
	Port        string          `json:"port"`
	Type        string          `json:"type"`
	Main        string          `json:"main"`
	UseIP       string          `json:"useip"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// HostGroup represents a Zabbix host group.
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
	Flags   string `json:"flags,omitempty"`
	Hosts   []Host `json:"hosts,omitempty"`
}

// TemplateGroup represents a Zabbix template group (≥6.2). On older
// servers template groups alias to host groups; the client routes by
// server version.
type TemplateGroup struct {
	GroupID   string     `json:"groupid"`
	Name      string     `json:"name"`
	Templates []Template `json:"templates,omitempty"`
}

// Template represents a Zabbix template.
type Template struct {
	TemplateID string     `json:"templateid"`
	Host       string     `json:"host"`
	Name       string     `json:"name,omitempty"`
	Hosts      []Host     `json:"hosts,omitempty"`
	Parents    []Template `json:"parentTemplates,omitempty"`
	Children   []Template `json:"templates,omitempty"`
}

// User represents a Zabbix user. The username property is "alias" before
// 6.0; normalizeUser folds it into Username.
type User struct {
	UserID     string      `json:"userid"`
	Username   string      `json:"username,omitempty"`
	Alias      string      `json:"alias,omitempty"`
	Name       string      `json:"name,omitempty"`
	Surname    string      `json:"surname,omitempty"`
	RoleID     string      `json:"roleid,omitempty"`
	Usergroups []Usergroup `json:"usrgrps,omitempty"`
}

// Usergroup represents a Zabbix user group. Rights is populated before
// 6.2; the split host/template collections from 6.2.
type Usergroup struct {
	UsergroupID         string  `json:"usrgrpid"`
	Name                string  `json:"name"`
	GUIAccess           string  `json:"gui_access,omitempty"`
	UsersStatus         string  `json:"users_status,omitempty"`
	Rights              []Right `json:"rights,omitempty"`
	HostGroupRights     []Right `json:"hostgroup_rights,omitempty"`
	TemplateGroupRights []Right `json:"templategroup_rights,omitempty"`
	Users               []User  `json:"users,omitempty"`
}

// Right is a usergroup permission entry: a group id and a permission
// level (0 deny, 2 read, 3 read-write).
type Right struct {
	ID         string `json:"id"`
	Permission string `json:"permission"`
}

// Role represents a Zabbix user role (≥5.2).
type Role struct {
	RoleID   string `json:"roleid"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	ReadOnly string `json:"readonly,omitempty"`
}

// Macro represents a host-scoped user macro.
type Macro struct {
	HostMacroID string `json:"hostmacroid,omitempty"`
	HostID      string `json:"hostid,omitempty"`
	Macro       string `json:"macro"`
	Value       string `json:"value,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// GlobalMacro represents a global user macro.
type GlobalMacro struct {
	GlobalMacroID string `json:"globalmacroid,omitempty"`
	Macro         string `json:"macro"`
	Value         string `json:"value,omitempty"`
	Type          string `json:"type,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Proxy represents a Zabbix proxy. The name property is "host" before
// 7.0; normalizeProxy folds it into Name.
type Proxy struct {
	ProxyID      string `json:"proxyid"`
	Name         string `json:"name,omitempty"`
	Host         string `json:"host,omitempty"`
	Mode         string `json:"operating_mode,omitempty"`
	LegacyStatus string `json:"status,omitempty"`
	Address      string `json:"address,omitempty"`
	LocalAddress string `json:"local_address,omitempty"`
	ProxyGroupID string `json:"proxy_groupid,omitempty"`
	Version      string `json:"version,omitempty"`
	Compat       string `json:"compatibility,omitempty"`
	Hosts        []Host `json:"hosts,omitempty"`
}

// ProxyGroup represents a Zabbix proxy group (≥7.0). MinOnline is kept
// as the wire string; the client coerces non-numeric values to "1".
type ProxyGroup struct {
	ProxyGroupID  string  `json:"proxy_groupid"`
	Name          string  `json:"name"`
	FailoverDelay string  `json:"failover_delay,omitempty"`
	MinOnline     string  `json:"min_online,omitempty"`
	State         string  `json:"state,omitempty"`
	Proxies       []Proxy `json:"proxies,omitempty"`
}

// MinOnlineCount returns MinOnline as an int; callers see 1 for values
// the server mangled (the client has already coerced and logged those).
func (g *ProxyGroup) MinOnlineCount() int {
	n, err := strconv.Atoi(g.MinOnline)
	if err != nil {
		return 1
	}
	return n
}

// Maintenance represents a Zabbix maintenance window. The epoch fields
// stay wire strings; use ActiveSince/ActiveTill for instants.
type Maintenance struct {
	MaintenanceID string       `json:"maintenanceid"`
	Name          string       `json:"name"`
	ActiveSinceTS string       `json:"active_since,omitempty"`
	ActiveTillTS  string       `json:"active_till,omitempty"`
	Description   string       `json:"description,omitempty"`
	Type          string       `json:"maintenance_type,omitempty"`
	Hosts         []Host       `json:"hosts,omitempty"`
	Groups        []HostGroup  `json:"hostgroups,omitempty"`
	LegacyGroups  []HostGroup  `json:"groups,omitempty"`
	TimePeriods   []TimePeriod `json:"timeperiods,omitempty"`
}

// ActiveSince returns the window start as a time.Time (zero on absence).
func (m *Maintenance) ActiveSince() time.Time { return epochToTime(m.ActiveSinceTS) }

// ActiveTill returns the window end as a time.Time (zero on absence).
func (m *Maintenance) ActiveTill() time.Time { return epochToTime(m.ActiveTillTS) }

func epochToTime(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// TimePeriod is one maintenance time period.
type TimePeriod struct {
	Type      string `json:"timeperiod_type"`
	StartDate string `json:"start_date,omitempty"`
	Period    string `json:"period,omitempty"`
}

// Event represents a Zabbix event.
type Event struct {
	EventID      string `json:"eventid"`
	Source       string `json:"source,omitempty"`
	Object       string `json:"object,omitempty"`
	ObjectID     string `json:"objectid"`
	ClockTS      string `json:"clock,omitempty"`
	Name         string `json:"name,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Acknowledged string `json:"acknowledged,omitempty"`
	Value        string `json:"value,omitempty"`
}

// Clock returns the event timestamp as a time.Time (zero on absence).
func (e *Event) Clock() time.Time { return epochToTime(e.ClockTS) }

// Trigger represents a Zabbix trigger.
type Trigger struct {
	TriggerID    string `json:"triggerid"`
	Description  string `json:"description"`
	Expression   string `json:"expression,omitempty"`
	Priority     string `json:"priority,omitempty"`
	Status       string `json:"status,omitempty"`
	Value        string `json:"value,omitempty"`
	LastChangeTS string `json:"lastchange,omitempty"`
	Hosts        []Host `json:"hosts,omitempty"`
}

// LastChange returns the trigger's last state change as a time.Time.
func (tr *Trigger) LastChange() time.Time { return epochToTime(tr.LastChangeTS) }

// Item represents a Zabbix item.
type Item struct {
	ItemID    string `json:"itemid"`
	HostID    string `json:"hostid,omitempty"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key_"`
	Value     string `json:"lastvalue,omitempty"`
	ValueType string `json:"value_type,omitempty"`
	State     string `json:"state,omitempty"`
}

// MediaType represents a Zabbix media type.
type MediaType struct {
	MediaTypeID string `json:"mediatypeid"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Image represents a Zabbix map image.
type Image struct {
	ImageID   string `json:"imageid"`
	Name      string `json:"name"`
	ImageType string `json:"imagetype,omitempty"`
}

// Map represents a Zabbix value map of the network topology kind.
type Map struct {
	SysmapID string `json:"sysmapid"`
	Name     string `json:"name"`
	Width    string `json:"width,omitempty"`
	Height   string `json:"height,omitempty"`
}

// APIResponse represents a Zabbix JSON-RPC response envelope.
type APIResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *errs.APIError  `json:"error,omitempty"`
	ID      int64           `json:"id"`
}
