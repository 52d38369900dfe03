package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/domain"
	"walletlink/internal/transport"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := transport.NewPrinter(&buf)

	require.NoError(t, p.OpenURL(context.Background(), "petra://api/v1/connect?data=e30="))
	require.NoError(t, p.OpenURL(context.Background(), "petra://api/v1/connect?data=e31="))
	assert.Equal(t, "petra://api/v1/connect?data=e30=\npetra://api/v1/connect?data=e31=\n", buf.String())
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	ctx := context.Background()

	require.NoError(t, transport.NewExec("true", slog.Disabled).OpenURL(ctx, "petra://x"))

	err := transport.NewExec("false", slog.Disabled).OpenURL(ctx, "petra://x")
	require.ErrorIs(t, err, domain.ErrTransportUnavailable)

	err = transport.NewExec("walletlink-no-such-opener", slog.Disabled).OpenURL(ctx, "petra://x")
	require.ErrorIs(t, err, domain.ErrTransportUnavailable)
}

func TestHTTP_QueuesCallback(t *testing.T) {
	var got transport.OpenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/open", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(transport.OpenResponse{Callback: "ai2048://api/v1/connect?response=approved"})
	}))
	defer srv.Close()

	c := transport.NewHTTP(srv.URL, slog.Disabled)
	require.NoError(t, c.OpenURL(context.Background(), "petra://api/v1/connect?data=e30="))
	assert.Equal(t, "petra://api/v1/connect?data=e30=", got.URL)

	select {
	case cb := <-c.Callbacks():
		assert.Equal(t, "ai2048://api/v1/connect?response=approved", cb)
	default:
		t.Fatal("no callback queued")
	}
}

func TestHTTP_NoCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := transport.NewHTTP(srv.URL, slog.Disabled)
	require.NoError(t, c.OpenURL(context.Background(), "petra://x"))
	assert.Empty(t, c.Callbacks())
}

func TestHTTP_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported", http.StatusBadRequest)
	}))
	c := transport.NewHTTP(srv.URL, slog.Disabled)
	err := c.OpenURL(context.Background(), "petra://x")
	require.ErrorIs(t, err, domain.ErrTransportUnavailable)

	srv.Close()
	err = c.OpenURL(context.Background(), "petra://x")
	require.ErrorIs(t, err, domain.ErrTransportUnavailable)
}
