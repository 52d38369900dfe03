package transport

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/decred/slog"

	"walletlink/internal/domain"
)

// DefaultOpener returns the URL opener for the current OS.
func DefaultOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Exec opens URLs with an external command.
type Exec struct {
	command string
	log     slog.Logger
}

// NewExec returns an Exec that runs command <url>. An empty command selects
// DefaultOpener.
func NewExec(command string, log slog.Logger) *Exec {
	if command == "" {
		command = DefaultOpener()
	}
	return &Exec{command: command, log: log}
}

func (e *Exec) OpenURL(ctx context.Context, url string) error {
	path, err := exec.LookPath(e.command)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransportUnavailable, err)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, url)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrTransportUnavailable, e.command, msg)
	}
	e.log.Debugf("Handed link to %s", e.command)
	return nil
}

var _ domain.Transport = (*Exec)(nil)
