package auth

import (
	"context"
	"log/slog"
	"os"

	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
	"github.com/kidoz/zbxctl/internal/zabbix"
)

// Environment variables the resolver reads directly, bypassing the
// config layer so their precedence stays observable.
const (
	EnvAPIToken = "ZABBIX_API_TOKEN"
	EnvUsername = "ZABBIX_USERNAME"
	EnvPassword = "ZABBIX_PASSWORD"
)

// CredentialType says what kind of secret won the resolution.
type CredentialType string

const (
	TypeAPIToken CredentialType = "api_token"
	TypeSession  CredentialType = "session"
	TypePassword CredentialType = "password"
)

// Source says where the winning credential came from.
type Source string

const (
	SourceEnv           Source = "env"
	SourceConfig        Source = "config"
	SourceSessionFile   Source = "session_file"
	SourceAuthFile      Source = "auth_file"
	SourceAuthTokenFile Source = "auth_token_file"
	SourcePrompt        Source = "prompt"
)

// Credential is one authentication candidate and, after Resolve, the
// winner. Exactly one of Token, Session, or Username+Password is set.
type Credential struct {
	Type   CredentialType
	Source Source

	Username string
	Password string
	Token    string
	Session  string
}

// LoginClient is the slice of the Zabbix client the resolver needs: a
// probing login and access to the session id it may persist.
type LoginClient interface {
	Login(ctx context.Context, cred zabbix.Credentials) error
	SessionID() string
}

// Resolver tries credential sources in a fixed order and returns the
// first one the server accepts. The order is: API token from env, API
// token from config, session file, username/password from env, from
// config, from the legacy auth file, a legacy auth-token file, and
// finally an interactive prompt.
type Resolver struct {
	cfg    *config.Config
	log    *slog.Logger
	store  *SessionStore
	client LoginClient

	// Injection points for tests.
	lookupEnv  func(string) (string, bool)
	isTerminal func() bool
	prompt     func(defaultUsername string) (string, string, error)
}

// NewResolver creates a resolver over the given session store and
// client.
func NewResolver(cfg *config.Config, log *slog.Logger, store *SessionStore, client LoginClient) *Resolver {
	return &Resolver{
		cfg:        cfg,
		log:        log,
		store:      store,
		client:     client,
		lookupEnv:  os.LookupEnv,
		isTerminal: stdinIsTerminal,
		prompt:     promptCredentials,
	}
}

// Resolve walks the source order, probing each candidate with a login.
// Rejected credentials move resolution to the next source; any other
// failure (network, TLS, malformed response) aborts immediately. When
// a username/password wins and session persistence is enabled, the
// fresh session id is written to the session store.
func (r *Resolver) Resolve(ctx context.Context) (*Credential, error) {
	for _, cred := range r.candidates() {
		r.log.Debug("trying credential source",
			slog.String("type", string(cred.Type)), slog.String("source", string(cred.Source)))

		err := r.client.Login(ctx, zabbix.Credentials{
			Username: cred.Username,
			Password: cred.Password,
			Token:    cred.Token,
			Session:  cred.Session,
		})
		if err != nil {
			if errs.IsAuthFailure(err) {
				r.log.Debug("credential rejected, trying next source",
					slog.String("source", string(cred.Source)), slog.String("error", err.Error()))
				continue
			}
			return nil, err
		}

		r.log.Info("authenticated",
			slog.String("type", string(cred.Type)), slog.String("source", string(cred.Source)))

		if cred.Type == TypePassword && r.cfg.Session.UseFile {
			r.persistSession(cred.Username)
		}
		return &cred, nil
	}

	if !r.isTerminal() {
		return nil, errs.New(errs.KindLogin, "no valid credentials found and stdin is not a terminal")
	}

	username, password, err := r.prompt(r.defaultUsername())
	if err != nil {
		return nil, err
	}
	cred := Credential{Type: TypePassword, Source: SourcePrompt, Username: username, Password: password}
	if err := r.client.Login(ctx, zabbix.Credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}

	r.log.Info("authenticated", slog.String("type", string(cred.Type)), slog.String("source", string(cred.Source)))
	if r.cfg.Session.UseFile {
		r.persistSession(username)
	}
	return &cred, nil
}

// candidates builds the non-interactive source list in priority order,
// skipping sources that have nothing to offer.
func (r *Resolver) candidates() []Credential {
	var out []Credential

	if token, ok := r.lookupEnv(EnvAPIToken); ok && token != "" {
		out = append(out, Credential{Type: TypeAPIToken, Source: SourceEnv, Token: token})
	}
	if r.cfg.API.AuthToken != "" {
		out = append(out, Credential{Type: TypeAPIToken, Source: SourceConfig, Token: r.cfg.API.AuthToken})
	}

	if username := r.defaultUsername(); username != "" {
		if session, ok := r.sessionFromFile(username); ok {
			out = append(out, Credential{
				Type: TypeSession, Source: SourceSessionFile,
				Username: username, Session: session,
			})
		}
	}

	envUser, _ := r.lookupEnv(EnvUsername)
	envPass, _ := r.lookupEnv(EnvPassword)
	if envUser != "" && envPass != "" {
		out = append(out, Credential{Type: TypePassword, Source: SourceEnv, Username: envUser, Password: envPass})
	}

	if r.cfg.API.Username != "" && r.cfg.API.Password != "" {
		out = append(out, Credential{
			Type: TypePassword, Source: SourceConfig,
			Username: r.cfg.API.Username, Password: r.cfg.API.Password,
		})
	}

	if r.cfg.Session.AuthFile != "" {
		if username, password, err := ReadSecretPairFile(r.cfg.Session.AuthFile, r.cfg.Session.AllowInsecure); err != nil {
			r.log.Debug("skipping auth file", slog.String("error", err.Error()))
		} else {
			out = append(out, Credential{
				Type: TypePassword, Source: SourceAuthFile,
				Username: username, Password: password,
			})
		}
	}

	if r.cfg.Session.AuthTokenFile != "" {
		if username, token, err := ReadSecretPairFile(r.cfg.Session.AuthTokenFile, r.cfg.Session.AllowInsecure); err != nil {
			r.log.Debug("skipping auth token file", slog.String("error", err.Error()))
		} else {
			out = append(out, Credential{
				Type: TypeSession, Source: SourceAuthTokenFile,
				Username: username, Session: token,
			})
		}
	}

	return out
}

// defaultUsername is the username session lookups and the prompt
// default to: environment first, then config.
func (r *Resolver) defaultUsername() string {
	if username, ok := r.lookupEnv(EnvUsername); ok && username != "" {
		return username
	}
	return r.cfg.API.Username
}

func (r *Resolver) sessionFromFile(username string) (string, bool) {
	if r.store == nil {
		return "", false
	}
	return r.store.Get(r.cfg.APIURL(), username)
}

// persistSession saves the session id the login just produced. Failing
// to persist is an inconvenience, not a failure of the resolution.
func (r *Resolver) persistSession(username string) {
	if r.store == nil {
		return
	}
	sessionID := r.client.SessionID()
	if sessionID == "" {
		return
	}
	r.store.Set(r.cfg.APIURL(), username, sessionID)
	if err := r.store.Save(); err != nil {
		r.log.Warn("cannot persist session", slog.String("error", err.Error()))
		return
	}
	r.log.Debug("session persisted", slog.String("path", r.store.Path()), slog.String("username", username))
}
