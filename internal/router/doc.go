// Package router dispatches inbound callback links to the session.
//
// Links arrive on a channel (Run) or one at a time (Route). A link for
// another app, an unknown topic, or an unparseable query is dropped and
// logged; it never reaches the session and never stops the loop.
package router
