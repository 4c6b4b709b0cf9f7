package nunu

import (
	"errors"

	"github.com/Paulos19/nunu/api"
)

// The API failure taxonomy is defined next to the transport and re-exported
// here so callers holding only this package can branch on it.
var (
	// ErrInvalidCredentials marks a backend-rejected email/password pair
	// (HTTP 401).
	ErrInvalidCredentials = api.ErrInvalidCredentials
	// ErrNetworkUnavailable marks a request that never produced an HTTP
	// response (DNS failure, refused connection, transport timeout).
	ErrNetworkUnavailable = api.ErrNetworkUnavailable
	// ErrMalformedResponse marks a success response missing required fields
	// (token, user id, user role). A 200 with a broken body must never
	// become a session.
	ErrMalformedResponse = api.ErrMalformedResponse
)

var (
	// ErrSessionPersistence is returned by SignIn when the credential store
	// rejected the write. The in-memory session is left unchanged so the
	// caller can retry.
	ErrSessionPersistence = errors.New("session persistence failed")
	// ErrSessionBusy is returned when SignIn, SignOut, or Bootstrap is
	// called while another of these operations is still in flight. Callers
	// must serialize session mutations.
	ErrSessionBusy = errors.New("session operation already in flight")
	// ErrAlreadyBootstrapped is returned by Bootstrap after the first call.
	// Bootstrap runs exactly once per process.
	ErrAlreadyBootstrapped = errors.New("session already bootstrapped")
	// ErrEmptyToken rejects SignIn with an empty bearer token.
	ErrEmptyToken = errors.New("empty session token")
	// ErrIncompleteUser rejects SignIn with a user missing ID or Role.
	// A partial user is never published to subscribers.
	ErrIncompleteUser = errors.New("incomplete user record")
	// ErrManagerClosed is returned after Close.
	ErrManagerClosed = errors.New("session manager closed")
)
