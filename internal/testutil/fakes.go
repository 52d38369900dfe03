package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Test schemes and app identity.
const (
	WalletScheme = "petra"
	AppScheme    = "ai2048"
	Function     = "0x1::game::submit_score"
)

// NewLinks returns a deep-link builder using the test schemes.
func NewLinks() *deeplink.Links {
	return deeplink.NewLinks(deeplink.Config{
		WalletScheme: WalletScheme,
		AppScheme:    AppScheme,
		APIVersion:   "v1",
		AppInfo:      domain.AppInfo{Domain: "https://ai2048.example.com", Name: "Ai2048"},
		Function:     Function,
	})
}

// RecordingTransport records every URL it is asked to open.
type RecordingTransport struct {
	mu   sync.Mutex
	urls []string
}

func (t *RecordingTransport) OpenURL(ctx context.Context, url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.urls = append(t.urls, url)
	return nil
}

// URLs returns a copy of the recorded URLs.
func (t *RecordingTransport) URLs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.urls...)
}

// Last returns the most recent URL, or "" if none.
func (t *RecordingTransport) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.urls) == 0 {
		return ""
	}
	return t.urls[len(t.urls)-1]
}

// Reset forgets recorded URLs.
func (t *RecordingTransport) Reset() {
	t.mu.Lock()
	t.urls = nil
	t.mu.Unlock()
}

// FailingTransport refuses every URL, as when the wallet is not installed.
type FailingTransport struct{}

func (FailingTransport) OpenURL(ctx context.Context, url string) error {
	return fmt.Errorf("%w: no application registered for scheme", domain.ErrTransportUnavailable)
}

// ErrBackend is returned by FailingKV.
var ErrBackend = errors.New("backend offline")

// FailingKV wraps a KVStore and fails reads and/or writes on demand.
type FailingKV struct {
	domain.KVStore

	mu        sync.Mutex
	failRead  bool
	failWrite bool
}

// NewFailingKV wraps inner.
func NewFailingKV(inner domain.KVStore) *FailingKV { return &FailingKV{KVStore: inner} }

// FailReads toggles read failures.
func (f *FailingKV) FailReads(v bool) { f.mu.Lock(); f.failRead = v; f.mu.Unlock() }

// FailWrites toggles write failures.
func (f *FailingKV) FailWrites(v bool) { f.mu.Lock(); f.failWrite = v; f.mu.Unlock() }

func (f *FailingKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failRead
	f.mu.Unlock()
	if fail {
		return "", false, ErrBackend
	}
	return f.KVStore.Get(ctx, key)
}

func (f *FailingKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return ErrBackend
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *FailingKV) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return ErrBackend
	}
	return f.KVStore.Remove(ctx, key)
}

// SubmissionCall is one invocation of a submission sink.
type SubmissionCall struct {
	Success bool
	Message string
}

// ResultRecorder collects sink invocations.
type ResultRecorder struct {
	mu          sync.Mutex
	Pairings    []bool
	Submissions []SubmissionCall
}

// OnPairing is a domain.PairingResultFunc.
func (r *ResultRecorder) OnPairing(approved bool) {
	r.mu.Lock()
	r.Pairings = append(r.Pairings, approved)
	r.mu.Unlock()
}

// OnSubmission is a domain.SubmissionResultFunc.
func (r *ResultRecorder) OnSubmission(success bool, message string) {
	r.mu.Lock()
	r.Submissions = append(r.Submissions, SubmissionCall{Success: success, Message: message})
	r.mu.Unlock()
}

// Snapshot returns copies of the recorded calls.
func (r *ResultRecorder) Snapshot() ([]bool, []SubmissionCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.Pairings...), append([]SubmissionCall(nil), r.Submissions...)
}
