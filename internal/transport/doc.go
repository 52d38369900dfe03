// Package transport implements domain.Transport, the "open this URL"
// capability that hands outbound links to the wallet.
//
// Three variants are provided:
//   - Exec runs the platform URL opener (xdg-open, open) so the OS routes the
//     link to whichever app registered the wallet scheme.
//   - Printer writes the link to a writer, for headless use where a person
//     copies it to a device.
//   - HTTP posts the link to a wallet bridge (see cmd/mockwallet) and queues
//     the callback URL the bridge answers with.
//
// Every failure wraps domain.ErrTransportUnavailable.
package transport
