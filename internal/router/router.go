package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/decred/slog"

	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Router parses callback links and hands them to a CallbackHandler.
type Router struct {
	links   *deeplink.Links
	handler domain.CallbackHandler
	log     slog.Logger
}

func New(links *deeplink.Links, handler domain.CallbackHandler, log slog.Logger) *Router {
	return &Router{links: links, handler: handler, log: log}
}

// Route dispatches one link. The returned error only explains why a link
// was dropped; callers may ignore it.
func (r *Router) Route(ctx context.Context, raw string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic while routing: %v", domain.ErrMalformedCallback, p)
			r.log.Errorf("Recovered while routing callback: %v", p)
		}
	}()

	env, err := r.links.ParseCallback(raw)
	if err != nil {
		r.logDropped(err)
		return err
	}

	r.log.Debugf("Routing %s callback with status %q", env.Operation, env.Status)
	switch env.Operation {
	case domain.OperationPairing:
		r.handler.HandlePairingCallback(ctx, env)
	case domain.OperationSubmission:
		r.handler.HandleSubmissionCallback(ctx, env)
	}
	return nil
}

// Run routes links from in until ctx is done or in is closed.
func (r *Router) Run(ctx context.Context, in <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-in:
			if !ok {
				return nil
			}
			_ = r.Route(ctx, raw)
		}
	}
}

func (r *Router) logDropped(err error) {
	switch {
	case errors.Is(err, domain.ErrForeignLink):
		r.log.Debugf("Ignoring link for another app")
	case errors.Is(err, domain.ErrUnknownTopic):
		r.log.Debugf("Dropping callback: %v", err)
	default:
		r.log.Warnf("Dropping callback: %v", err)
	}
}
