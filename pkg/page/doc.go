// Package page models browser page contexts and the content agent that
// runs inside them.
//
// Each Context owns its DOM (a golang.org/x/net/html tree) on a private
// goroutine. Callers never touch the tree directly; they post commands and
// wait for a reply, the same way an extension background context talks to
// a content script. A Context without an installed Agent answers every
// command with ErrNoReceiver.
package page
