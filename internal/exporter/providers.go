package exporter

import (
	"go.uber.org/fx"

	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Module provides the exporter and its Zabbix client dependency for fx
// injection.
var Module = fx.Module("exporter",
	fx.Provide(New),
	zabbix.Module,
)
