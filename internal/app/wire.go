package app

import (
	"errors"
	"io"
	"os"

	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
	"walletlink/internal/router"
	"walletlink/internal/services/pairing"
	"walletlink/internal/services/session"
	"walletlink/internal/services/submission"
	"walletlink/internal/store"
	"walletlink/internal/transport"
)

// ErrPassphraseRequired is returned when storage.encrypt is set but no
// passphrase was supplied.
var ErrPassphraseRequired = errors.New("passphrase required for encrypted storage")

// Options carries runtime inputs that do not belong in the config file.
type Options struct {
	Passphrase string
	Out        io.Writer // print transport target; defaults to os.Stdout
	Logging    *Logging  // defaults to Info on os.Stderr
}

// Wire bundles all stores, services and the router for the CLI.
type Wire struct {
	Config     Config
	Logging    *Logging
	Links      *deeplink.Links
	KV         domain.KVStore
	Keys       domain.KeyStore
	Transport  domain.Transport
	Pairing    *pairing.Service
	Submission *submission.Service
	Session    *session.Session
	Router     *router.Router

	bridge *transport.HTTP
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, opts Options) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs := opts.Logging
	if logs == nil {
		var err error
		logs, err = NewLogging(os.Stderr, cfg.LogLevel, cfg.Debug)
		if err != nil {
			return nil, err
		}
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	links := deeplink.NewLinks(deeplink.Config{
		WalletScheme: cfg.WalletScheme,
		AppScheme:    cfg.AppScheme,
		APIVersion:   cfg.APIVersion,
		AppInfo:      cfg.AppInfo,
		Function:     cfg.Function,
	})

	// Key-value backend
	var kv domain.KVStore
	switch cfg.Storage.Backend {
	case BackendMemory:
		kv = store.NewMemoryKV()
	default:
		if cfg.Storage.Encrypt {
			if opts.Passphrase == "" {
				return nil, ErrPassphraseRequired
			}
			kv = store.NewSealedFileKV(cfg.Storage.Dir, opts.Passphrase)
		} else {
			kv = store.NewFileKV(cfg.Storage.Dir)
		}
	}
	keys := store.NewKeyStore(kv)

	w := &Wire{
		Config:  cfg,
		Logging: logs,
		Links:   links,
		KV:      kv,
		Keys:    keys,
	}

	// Platform transport
	xlog := logs.Logger(SubsysTransport)
	switch cfg.Transport.Kind {
	case TransportPrint:
		w.Transport = transport.NewPrinter(out)
	case TransportHTTP:
		w.bridge = transport.NewHTTP(cfg.Transport.BridgeURL, xlog)
		w.Transport = w.bridge
	default:
		w.Transport = transport.NewExec(cfg.Transport.Command, xlog)
	}

	// High-level services
	w.Pairing = pairing.New(keys, w.Transport, links, logs.Logger(SubsysPairing))
	w.Submission = submission.New(w.Pairing, w.Transport, links, logs.Logger(SubsysSubmission))
	w.Session = session.New(w.Pairing, w.Submission, logs.Logger(SubsysSession))
	w.Router = router.New(links, w.Session, logs.Logger(SubsysRouter))
	return w, nil
}

// TransportCallbacks yields callbacks returned by an HTTP wallet bridge, or
// nil for transports that cannot return them.
func (w *Wire) TransportCallbacks() <-chan string {
	if w.bridge == nil {
		return nil
	}
	return w.bridge.Callbacks()
}

// Close wipes in-memory key material.
func (w *Wire) Close() {
	w.Session.Close()
}
