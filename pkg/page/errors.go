package page

import "errors"

var (
	// ErrNoReceiver means the page has no content agent to answer.
	ErrNoReceiver = errors.New("could not establish connection: receiving end does not exist")

	// ErrContextGone means the page context was destroyed.
	ErrContextGone = errors.New("page context destroyed")

	// ErrNotScriptable means the browser refuses to inject into the page.
	ErrNotScriptable = errors.New("cannot access contents of the page")

	// ErrTabNotFound means no context is registered under the tab id.
	ErrTabNotFound = errors.New("no tab with id")
)
