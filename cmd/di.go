package cmd

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/kidoz/zbxctl/internal/auth"
	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/exporter"
	"github.com/kidoz/zbxctl/internal/importer"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

// session is everything an authenticated command works with: the
// logged-in client, where its credential came from, and the session
// store for logout bookkeeping.
type session struct {
	client *zabbix.Client
	cred   *auth.Credential
	store  *auth.SessionStore
}

func initSession(ctx context.Context, cfg *config.Config, log *slog.Logger) (*session, error) {
	var (
		c *zabbix.Client
		r *auth.Resolver
		s *auth.SessionStore
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		zabbix.Module,
		auth.Module,
		fx.Populate(&c, &r, &s),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	cred, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &session{client: c, cred: cred, store: s}, nil
}

func initExporter(ctx context.Context, cfg *config.Config, log *slog.Logger) (*exporter.Exporter, *session, error) {
	var (
		e *exporter.Exporter
		c *zabbix.Client
		r *auth.Resolver
		s *auth.SessionStore
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		exporter.Module,
		auth.Module,
		fx.Populate(&e, &c, &r, &s),
	)
	if err := app.Err(); err != nil {
		return nil, nil, err
	}

	cred, err := r.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	return e, &session{client: c, cred: cred, store: s}, nil
}

// initImporterNoAuth builds an importer without resolving credentials.
// Dry runs never talk to the server, so they must not trigger a login
// probe either.
func initImporterNoAuth(cfg *config.Config, log *slog.Logger) (*importer.Importer, error) {
	var i *importer.Importer
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		importer.Module,
		fx.Populate(&i),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return i, nil
}

func initImporter(ctx context.Context, cfg *config.Config, log *slog.Logger) (*importer.Importer, *session, error) {
	var (
		i *importer.Importer
		c *zabbix.Client
		r *auth.Resolver
		s *auth.SessionStore
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		importer.Module,
		auth.Module,
		fx.Populate(&i, &c, &r, &s),
	)
	if err := app.Err(); err != nil {
		return nil, nil, err
	}

	cred, err := r.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	return i, &session{client: c, cred: cred, store: s}, nil
}
