// Package inbound collects callback links dropped into an inbox directory.
//
// The OS URL handler for the app scheme (or `walletlink route --deliver`)
// writes each callback to <inbox>/<id>.url. A running listener watches the
// directory with fsnotify, reads each file, removes it, and forwards its
// lines to the router.
package inbound
