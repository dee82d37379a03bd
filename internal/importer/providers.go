package importer

import (
	"go.uber.org/fx"

	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Module provides the importer and its Zabbix client dependency for fx
// injection.
var Module = fx.Module("importer",
	fx.Provide(New),
	zabbix.Module,
)
