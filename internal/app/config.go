package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"walletlink/internal/domain"
	"walletlink/internal/transport"
)

// DefaultHomeName is the directory under the user's home holding state.
const DefaultHomeName = ".walletlink"

// ConfigFileName is the config file inside the home directory.
const ConfigFileName = "config.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Transport kinds.
const (
	TransportExec  = "exec"
	TransportPrint = "print"
	TransportHTTP  = "http"
)

// StorageConfig selects where keys and the shared secret live.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Encrypt bool   `yaml:"encrypt"` // seal the key file with a passphrase
}

// TransportConfig selects how links reach the wallet.
type TransportConfig struct {
	Kind      string `yaml:"kind"`
	Command   string `yaml:"command"`    // exec only
	BridgeURL string `yaml:"bridge_url"` // http only
}

// ListenConfig configures the long-running commands.
type ListenConfig struct {
	Addr  string `yaml:"addr"`
	Inbox string `yaml:"inbox"`
}

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string `yaml:"-"` // state directory, e.g. $HOME/.walletlink

	WalletScheme string         `yaml:"wallet_scheme"`
	AppScheme    string         `yaml:"app_scheme"`
	APIVersion   string         `yaml:"api_version"`
	AppInfo      domain.AppInfo `yaml:"app_info"`
	Function     string         `yaml:"function"`

	Storage   StorageConfig   `yaml:"storage"`
	Transport TransportConfig `yaml:"transport"`
	Listen    ListenConfig    `yaml:"listen"`

	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(home string) Config {
	return Config{
		Home:         home,
		WalletScheme: "petra",
		AppScheme:    "ai2048",
		APIVersion:   "v1",
		AppInfo: domain.AppInfo{
			Domain: "https://ai2048.example.com",
			Name:   "Ai2048",
		},
		Function: "0x1::game::submit_score",
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     home,
		},
		Transport: TransportConfig{
			Kind:    TransportExec,
			Command: transport.DefaultOpener(),
		},
		Listen: ListenConfig{
			Addr:  "127.0.0.1:8765",
			Inbox: filepath.Join(home, "inbox"),
		},
		LogLevel: "info",
	}
}

// ResolveHome returns flagValue, or $WALLETLINK_HOME, or ~/.walletlink.
func ResolveHome(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("WALLETLINK_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultHomeName), nil
}

// LoadConfig reads path over the defaults for home. An empty path means
// <home>/config.yaml; a missing file yields the defaults.
func LoadConfig(path, home string) (Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Home = home

	// Relative directories are relative to home.
	cfg.Storage.Dir = resolvePath(cfg.Storage.Dir, home)
	cfg.Listen.Inbox = resolvePath(cfg.Listen.Inbox, home)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.WalletScheme == "" {
		errs = append(errs, errors.New("wallet_scheme is required"))
	}
	if c.AppScheme == "" {
		errs = append(errs, errors.New("app_scheme is required"))
	}
	if strings.EqualFold(c.WalletScheme, c.AppScheme) && c.AppScheme != "" {
		errs = append(errs, errors.New("wallet_scheme and app_scheme must differ"))
	}
	if c.Function == "" {
		errs = append(errs, errors.New("function is required"))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file backend"))
		}
	case BackendMemory:
		if c.Storage.Encrypt {
			errs = append(errs, errors.New("storage.encrypt needs the file backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage.backend %q (must be file or memory)", c.Storage.Backend))
	}

	switch c.Transport.Kind {
	case TransportExec, TransportPrint:
	case TransportHTTP:
		if c.Transport.BridgeURL == "" {
			errs = append(errs, errors.New("transport.bridge_url is required for the http transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid transport.kind %q (must be exec, print or http)", c.Transport.Kind))
	}
	return errors.Join(errs...)
}

func resolvePath(p, home string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			return filepath.Join(h, p[2:])
		}
	}
	return filepath.Join(home, p)
}
