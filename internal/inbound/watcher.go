package inbound

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/decred/slog"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Ext is the suffix of files the watcher consumes.
const Ext = ".url"

// DefaultDebounce is how long the watcher waits after the last write before
// reading a file.
const DefaultDebounce = 100 * time.Millisecond

// Watcher forwards links written to an inbox directory.
type Watcher struct {
	Dir      string
	Debounce time.Duration

	log slog.Logger
}

// NewWatcher returns a Watcher for dir.
func NewWatcher(dir string, log slog.Logger) *Watcher {
	return &Watcher{Dir: dir, Debounce: DefaultDebounce, log: log}
}

// Run drains files already in the inbox, then forwards new ones to out until
// ctx is done. The directory is created if missing.
func (w *Watcher) Run(ctx context.Context, out chan<- string) error {
	if err := os.MkdirAll(w.Dir, 0o700); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch inbox: %w", err)
	}
	w.log.Infof("Watching %s for callbacks", w.Dir)

	existing, err := filepath.Glob(filepath.Join(w.Dir, "*"+Ext))
	if err != nil {
		return err
	}
	for _, name := range existing {
		if err := w.deliver(ctx, name, out); err != nil {
			return err
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, Ext) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.Debounce)

		case <-timer.C:
			for name := range pending {
				if err := w.deliver(ctx, name, out); err != nil {
					return err
				}
				delete(pending, name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("Inbox watcher error: %v", err)
		}
	}
}

// deliver reads and removes name, then sends each non-empty line. Only a
// cancelled ctx is returned as an error; unreadable files are logged.
func (w *Watcher) deliver(ctx context.Context, name string, out chan<- string) error {
	b, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		w.log.Warnf("Reading %s failed: %v", name, err)
		return nil
	}
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		w.log.Warnf("Removing %s failed: %v", name, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Drop writes link into dir as a new inbox file. The file appears under its
// final name only once fully written.
func Drop(dir, link string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, ".drop-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.WriteString(link + "\n"); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	name := filepath.Join(dir, uuid.NewString()+Ext)
	if err := os.Rename(tmp, name); err != nil {
		return "", err
	}
	return name, nil
}
