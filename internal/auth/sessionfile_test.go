package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidoz/zbxctl/internal/errs"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path, false)

	store.Set("https://zbx/api_jsonrpc.php", "Admin", "sid-1")
	store.Set("https://zbx/api_jsonrpc.php", "guest", "sid-2")
	store.Set("https://other/api_jsonrpc.php", "Admin", "sid-3")
	require.NoError(t, store.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, secureMode, info.Mode().Perm())

	loaded := NewSessionStore(path, false)
	require.NoError(t, loaded.Load())

	sid, ok := loaded.Get("https://zbx/api_jsonrpc.php", "Admin")
	assert.True(t, ok)
	assert.Equal(t, "sid-1", sid)
	sid, ok = loaded.Get("https://other/api_jsonrpc.php", "Admin")
	assert.True(t, ok)
	assert.Equal(t, "sid-3", sid)
	_, ok = loaded.Get("https://zbx/api_jsonrpc.php", "nobody")
	assert.False(t, ok)
}

func TestSessionStore_SetReplaces(t *testing.T) {
	store := NewSessionStore("", false)
	store.Set("u", "Admin", "old")
	store.Set("u", "Admin", "new")

	sid, ok := store.Get("u", "Admin")
	assert.True(t, ok)
	assert.Equal(t, "new", sid)
}

func TestSessionStore_Remove(t *testing.T) {
	store := NewSessionStore("", false)
	store.Set("u", "Admin", "sid")

	assert.True(t, store.Remove("u", "Admin"))
	assert.False(t, store.Remove("u", "Admin"))
	_, ok := store.Get("u", "Admin")
	assert.False(t, ok)
}

func TestSessionStore_LoadMissingFile(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "absent.json"), false)
	err := store.Load()
	assert.True(t, errs.IsSessionFileNotFound(err), "err = %v", err)
}

func TestSessionStore_LoadInsecureMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	err := NewSessionStore(path, false).Load()
	assert.True(t, errs.IsSessionFilePermissions(err), "err = %v", err)

	// allow_insecure turns the same file into a valid one.
	assert.NoError(t, NewSessionStore(path, true).Load())
}

func TestSessionStore_SaveRepairsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	store := NewSessionStore(path, false)
	store.Set("u", "Admin", "sid")
	require.NoError(t, store.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, secureMode, info.Mode().Perm())
}

func TestSessionStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	store := NewSessionStore(path, false)
	store.Set("u", "Admin", "sid")
	require.NoError(t, store.Save())

	assert.FileExists(t, path)
}

func TestSessionStore_EmptyPath(t *testing.T) {
	store := NewSessionStore("", false)
	assert.True(t, errs.IsSessionFileNotFound(store.Load()))
	assert.True(t, errs.IsSessionFile(store.Save()))
}

func TestReadSecretPairFile(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "auth")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("ok", func(t *testing.T) {
		user, secret, err := ReadSecretPairFile(write(t, "Admin::s3cret\n"), false)
		require.NoError(t, err)
		assert.Equal(t, "Admin", user)
		assert.Equal(t, "s3cret", secret)
	})

	t.Run("leading blank lines skipped", func(t *testing.T) {
		user, _, err := ReadSecretPairFile(write(t, "\n\n  \nAdmin::x"), false)
		require.NoError(t, err)
		assert.Equal(t, "Admin", user)
	})

	t.Run("malformed", func(t *testing.T) {
		_, _, err := ReadSecretPairFile(write(t, "Admin s3cret"), false)
		assert.True(t, errs.IsSessionFile(err), "err = %v", err)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := ReadSecretPairFile(write(t, "\n\n"), false)
		assert.True(t, errs.IsSessionFile(err), "err = %v", err)
	})

	t.Run("insecure mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auth")
		require.NoError(t, os.WriteFile(path, []byte("Admin::x"), 0o640))
		_, _, err := ReadSecretPairFile(path, false)
		assert.True(t, errs.IsSessionFilePermissions(err), "err = %v", err)
	})
}
