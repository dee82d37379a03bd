package auth

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Module provides the session store and the credential resolver for fx
// injection.
var Module = fx.Module("auth",
	fx.Provide(
		OpenSessionStore,
		provideResolver,
	),
)

// OpenSessionStore creates the session store from config and loads it.
// A missing file is a fresh store; an insecure or unreadable file is an
// error the caller must surface.
func OpenSessionStore(cfg *config.Config) (*SessionStore, error) {
	path := cfg.Session.File
	if path == "" {
		path = DefaultSessionFilePath()
	}

	store := NewSessionStore(path, cfg.Session.AllowInsecure)
	if err := store.Load(); err != nil {
		if errs.IsSessionFileNotFound(err) {
			return store, nil
		}
		return nil, err
	}
	return store, nil
}

func provideResolver(cfg *config.Config, log *slog.Logger, store *SessionStore, client *zabbix.Client) *Resolver {
	return NewResolver(cfg, log, store, client)
}
