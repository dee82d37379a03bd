package zabbix

import "go.uber.org/fx"

// Module provides the Zabbix client and its group cache for fx
// injection.
var Module = fx.Module("zabbix",
	fx.Provide(NewClient, NewGroupCache),
)
