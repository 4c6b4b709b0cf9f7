// Package credstore provides the secure credential store behind the session
// manager: a small key-value interface holding exactly the session token,
// the serialized user record, and the install identifier.
//
// Three implementations ship:
//
//   - [Memory] for tests and ephemeral runs
//   - [Sealed], an age-encrypted file store for a single device
//   - [Redis], a prefix-scoped store for kiosk and remote-agent deployments
//
// Values are opaque strings to this package; encoding and validation belong
// to the caller.
package credstore
