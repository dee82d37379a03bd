// Package auth resolves Zabbix credentials from the environment, the
// configuration, on-disk session and auth files, and finally an
// interactive prompt, probing each candidate against the server in a
// fixed order. It also owns the secure persistence of session ids.
package auth

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/kidoz/zbxctl/internal/errs"
)

// secureMode is the only acceptable permission set for files holding
// secrets.
const secureMode fs.FileMode = 0o600

// DefaultSessionFilePath returns the xdg location of the session file.
func DefaultSessionFilePath() string {
	return filepath.Join(xdg.DataHome, "zbxctl", "session.json")
}

// SessionEntry is one persisted session: a username and the session id
// user.login returned for it.
type SessionEntry struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
}

// SessionStore is the on-disk session map, keyed by server URL. It is
// plain data guarded by file permissions, so both Load and Save refuse
// to touch a file that is readable by anyone but the owner unless
// allowInsecure is set.
type SessionStore struct {
	path          string
	allowInsecure bool
	sessions      map[string][]SessionEntry
}

// NewSessionStore creates a store for the given path. An empty path
// means the store cannot be saved; Load treats it as a missing file.
func NewSessionStore(path string, allowInsecure bool) *SessionStore {
	return &SessionStore{
		path:          path,
		allowInsecure: allowInsecure,
		sessions:      make(map[string][]SessionEntry),
	}
}

// Path returns the file the store reads and writes.
func (s *SessionStore) Path() string { return s.path }

// Load reads the session file. A missing file is a SessionFileNotFound
// error; a file mode other than 0600 is a SessionFilePermissions error
// unless the store allows insecure files.
func (s *SessionStore) Load() error {
	if s.path == "" {
		return errs.New(errs.KindSessionFileNotFound, "no session file path configured")
	}

	if err := checkSecretFileMode(s.path, s.allowInsecure); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return errs.Wrap(errs.KindSessionFile, fmt.Sprintf("cannot read session file %s", s.path), err)
	}

	sessions := make(map[string][]SessionEntry)
	if err := json.Unmarshal(data, &sessions); err != nil {
		return errs.Wrap(errs.KindSessionFile, fmt.Sprintf("session file %s is not valid JSON", s.path), err)
	}

	s.sessions = sessions
	return nil
}

// Get returns the stored session id for (url, username).
func (s *SessionStore) Get(url, username string) (string, bool) {
	for _, entry := range s.sessions[url] {
		if entry.Username == username {
			return entry.SessionID, true
		}
	}
	return "", false
}

// Set stores a session id for (url, username), replacing any previous
// entry for the same pair. Save persists the change.
func (s *SessionStore) Set(url, username, sessionID string) {
	entries := s.sessions[url]
	for i, entry := range entries {
		if entry.Username == username {
			entries[i].SessionID = sessionID
			return
		}
	}
	s.sessions[url] = append(entries, SessionEntry{Username: username, SessionID: sessionID})
}

// Remove drops the entry for (url, username) if present and reports
// whether anything was removed.
func (s *SessionStore) Remove(url, username string) bool {
	entries := s.sessions[url]
	for i, entry := range entries {
		if entry.Username == username {
			s.sessions[url] = append(entries[:i], entries[i+1:]...)
			if len(s.sessions[url]) == 0 {
				delete(s.sessions, url)
			}
			return true
		}
	}
	return false
}

// Save writes the session map atomically: the content goes to a 0600
// temp file in the same directory which is then renamed over the
// target, so readers never observe a partial write. An existing target
// with lax permissions is repaired to 0600 first unless the store
// allows insecure files.
func (s *SessionStore) Save() error {
	if s.path == "" {
		return errs.New(errs.KindSessionFile, "cannot save session: no session file path configured")
	}

	if info, err := os.Stat(s.path); err == nil {
		if info.Mode().Perm() != secureMode && !s.allowInsecure {
			if err := os.Chmod(s.path, secureMode); err != nil {
				return errs.Wrap(errs.KindSessionFilePermissions,
					fmt.Sprintf("cannot fix permissions of session file %s", s.path), err)
			}
		}
	}

	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return errs.Wrap(errs.KindSessionFile, "cannot encode session file", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errs.Wrap(errs.KindSessionFile,
			fmt.Sprintf("cannot create session file directory %s", filepath.Dir(s.path)), err)
	}

	if err := atomicWriteFile(s.path, data); err != nil {
		return errs.Wrap(errs.KindSessionFile, fmt.Sprintf("cannot write session file %s", s.path), err)
	}
	return nil
}

// atomicWriteFile writes data to path through a sibling temp file and
// a rename. The temp file is locked down to 0600 before any secret
// byte is written.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(secureMode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// checkSecretFileMode enforces the 0600 rule shared by the session
// file and the legacy auth files.
func checkSecretFileMode(path string, allowInsecure bool) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errs.Newf(errs.KindSessionFileNotFound, "session file %s does not exist", path)
	}
	if err != nil {
		return errs.Wrap(errs.KindSessionFile, fmt.Sprintf("cannot stat session file %s", path), err)
	}

	if mode := info.Mode().Perm(); mode != secureMode && !allowInsecure {
		return errs.Newf(errs.KindSessionFilePermissions,
			"session file %s has mode %04o, want %04o (or set session.allow_insecure)", path, mode, secureMode)
	}
	return nil
}
