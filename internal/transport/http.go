package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/decred/slog"

	"walletlink/internal/domain"
)

// callbackQueue bounds callbacks waiting for the router.
const callbackQueue = 16

// OpenRequest is the body of POST /open on a wallet bridge.
type OpenRequest struct {
	URL string `json:"url"`
}

// OpenResponse is the bridge's answer. Callback is the link the wallet
// opened in return, or empty if it has not answered yet.
type OpenResponse struct {
	Callback string `json:"callback,omitempty"`
}

// HTTP delivers links to a wallet bridge over HTTP.
type HTTP struct {
	Base string
	HTTP *http.Client

	log       slog.Logger
	callbacks chan string
}

// NewHTTP returns a transport posting to the bridge at base.
func NewHTTP(base string, log slog.Logger) *HTTP {
	return &HTTP{
		Base:      base,
		HTTP:      http.DefaultClient,
		log:       log,
		callbacks: make(chan string, callbackQueue),
	}
}

// Callbacks yields callback URLs returned by the bridge. Feed it to the
// router.
func (c *HTTP) Callbacks() <-chan string { return c.callbacks }

// OpenURL posts url to the bridge. The callback, if any, is queued without
// blocking; when the queue is full it is dropped and logged.
func (c *HTTP) OpenURL(ctx context.Context, url string) error {
	var out OpenResponse
	if err := c.post(ctx, "/open", OpenRequest{URL: url}, &out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransportUnavailable, err)
	}
	if out.Callback == "" {
		return nil
	}
	select {
	case c.callbacks <- out.Callback:
	default:
		c.log.Warnf("Callback queue full, dropping %s", out.Callback)
	}
	return nil
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("bridge post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ domain.Transport = (*HTTP)(nil)
