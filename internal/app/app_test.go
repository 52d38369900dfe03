package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/app"
	"walletlink/internal/store"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	cfg, err := app.LoadConfig("", home)
	require.NoError(t, err)
	assert.Equal(t, app.DefaultConfig(home), cfg)
	assert.Equal(t, "petra", cfg.WalletScheme)
	assert.Equal(t, "ai2048", cfg.AppScheme)
	assert.Equal(t, filepath.Join(home, "inbox"), cfg.Listen.Inbox)
}

func TestLoadConfig_Overlay(t *testing.T) {
	home := t.TempDir()
	yml := `
wallet_scheme: testwallet
app_info:
  name: Scores
function: 0x2::scores::record
storage:
  dir: state
transport:
  kind: http
  bridge_url: http://127.0.0.1:9000
debug: true
`
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFileName), []byte(yml), 0o600))

	cfg, err := app.LoadConfig("", home)
	require.NoError(t, err)
	assert.Equal(t, "testwallet", cfg.WalletScheme)
	assert.Equal(t, "ai2048", cfg.AppScheme)
	assert.Equal(t, "Scores", cfg.AppInfo.Name)
	assert.Equal(t, "https://ai2048.example.com", cfg.AppInfo.Domain)
	assert.Equal(t, "0x2::scores::record", cfg.Function)
	assert.Equal(t, filepath.Join(home, "state"), cfg.Storage.Dir)
	assert.Equal(t, app.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, app.TransportHTTP, cfg.Transport.Kind)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_Invalid(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "bad.yaml")

	require.NoError(t, os.WriteFile(path, []byte("transport: [oops"), 0o600))
	_, err := app.LoadConfig(path, home)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("transport:\n  kind: http\n"), 0o600))
	_, err = app.LoadConfig(path, home)
	require.ErrorContains(t, err, "bridge_url")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*app.Config)
		want   string
	}{
		{"ok", func(*app.Config) {}, ""},
		{"no wallet scheme", func(c *app.Config) { c.WalletScheme = "" }, "wallet_scheme"},
		{"no app scheme", func(c *app.Config) { c.AppScheme = "" }, "app_scheme"},
		{"same schemes", func(c *app.Config) { c.AppScheme = "PETRA" }, "must differ"},
		{"bad backend", func(c *app.Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"encrypt memory", func(c *app.Config) { c.Storage.Backend = app.BackendMemory; c.Storage.Encrypt = true }, "storage.encrypt"},
		{"bad transport", func(c *app.Config) { c.Transport.Kind = "carrier-pigeon" }, "transport.kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := app.DefaultConfig(t.TempDir())
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestNewLogging(t *testing.T) {
	var buf bytes.Buffer
	logs, err := app.NewLogging(&buf, "warn", false)
	require.NoError(t, err)

	log := logs.Logger(app.SubsysPairing)
	log.Infof("hidden")
	log.Warnf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "PAIR")
	assert.Contains(t, buf.String(), "shown")

	_, err = app.NewLogging(&buf, "loud", false)
	require.Error(t, err)
}

func TestNewWire_PrintTransport(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.Transport.Kind = app.TransportPrint

	var out, logBuf bytes.Buffer
	logs, err := app.NewLogging(&logBuf, "info", false)
	require.NoError(t, err)

	w, err := app.NewWire(cfg, app.Options{Out: &out, Logging: logs})
	require.NoError(t, err)
	defer w.Close()
	assert.Nil(t, w.TransportCallbacks())

	require.NoError(t, w.Session.Submit(context.Background(), 12))
	assert.True(t, strings.HasPrefix(out.String(), "petra://api/v1/connect?data="))

	// The key pair was persisted under the home directory.
	_, ok, err := store.NewFileKV(cfg.Storage.Dir).Get(context.Background(), store.SecretKeyKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewWire_EncryptedNeedsPassphrase(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.Storage.Encrypt = true

	_, err := app.NewWire(cfg, app.Options{})
	require.ErrorIs(t, err, app.ErrPassphraseRequired)

	cfg.Transport.Kind = app.TransportPrint
	w, err := app.NewWire(cfg, app.Options{Passphrase: "pw", Out: &bytes.Buffer{}})
	require.NoError(t, err)
	w.Close()
}
