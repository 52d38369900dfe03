// Package submission encrypts a value for the wallet and interprets the
// wallet's verdict.
//
// Send requires existing credentials; the decision to pair first belongs to
// the session. The submission callback is trusted on its status alone: the
// wallet's reply carries no encrypted receipt that could be authenticated.
package submission
