package config

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
http:
  listen_addr: "127.0.0.1:8080"
  write_timeout: 30s
log:
  dir: logs
  level: info
session:
  idle_ttl: 30m
form:
  notice_delay: 5s
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

type fakeSecrets map[string]string

func (f fakeSecrets) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := f[ref]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestLoad_YAML(t *testing.T) {
	root := writeRoot(t, baseYAML)
	cfg, err := Load(WithRoot(root))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 5*time.Second, cfg.Form.NoticeDelay)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := writeRoot(t, baseYAML)
	t.Setenv("INTERACTIVE_HTTP__LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("INTERACTIVE_DEBUG__ENABLED", "true")
	t.Setenv("INTERACTIVE_SESSION__MAX_ENTRIES", "42")

	cfg, err := Load(WithRoot(root))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.Debug.Enabled)
	assert.Equal(t, 42, cfg.Session.MaxEntries)
}

func TestLoad_DotEnv(t *testing.T) {
	root := writeRoot(t, baseYAML)
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", ".env"),
		[]byte("INTERACTIVE_LOG__LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("INTERACTIVE_LOG__LEVEL") })

	cfg, err := Load(WithRoot(root))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing listen": strings.Replace(baseYAML, `listen_addr: "127.0.0.1:8080"`, `listen_addr: ""`, 1),
		"bad level":      strings.Replace(baseYAML, "level: info", "level: loud", 1),
		"short csrf key": baseYAML + "\n  csrf_key: c2hvcnQ\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(WithRoot(writeRoot(t, yaml)))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(WithRoot(t.TempDir()))
	assert.Error(t, err)
}

func TestLoad_VaultRefs(t *testing.T) {
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("x", 32)))
	yaml := baseYAML + "\n  csrf_key: \"vault:secret/interactive#csrf_key\"\n"

	_, err := Load(WithRoot(writeRoot(t, yaml)))
	assert.ErrorContains(t, err, "no vault client")

	cfg, err := Load(WithRoot(writeRoot(t, yaml)), WithSecrets(context.Background(),
		fakeSecrets{"secret/interactive#csrf_key": key}))
	require.NoError(t, err)
	assert.Equal(t, key, cfg.Form.CSRFKey)

	_, err = Load(WithRoot(writeRoot(t, yaml)), WithSecrets(context.Background(), fakeSecrets{}))
	assert.ErrorContains(t, err, "form.csrf_key")
}

func TestReload_ReusesOptions(t *testing.T) {
	root := writeRoot(t, baseYAML)
	_, err := Load(WithRoot(root))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"),
		[]byte(strings.Replace(baseYAML, "8080", "8181", 1)), 0o644))
	require.NoError(t, Reload())
	assert.Equal(t, "127.0.0.1:8181", Get().HTTP.ListenAddr)
}
