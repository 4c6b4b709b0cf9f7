// Package nunu implements the client-side authentication core of the Nunu
// app: a session state manager backed by a secure credential store, a route
// guard that keeps the displayed navigation area consistent with session
// state, and the wiring between them.
//
// The package is designed around a single [Manager] per process, built via
// [Builder.Build]. The Manager owns the session state; everything else
// (route guard, screens, CLI commands) observes it through subscriptions
// and never mutates it directly.
//
// # Architecture boundaries
//
// nunu is the public surface. It exposes [Manager], [Builder], [Config],
// [Guard], and value types (State, User, AuditEvent, MetricsSnapshot).
// Credential persistence lives in credstore; the HTTP surface lives in api.
// Internal coordination — audit dispatch, input validation — lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Talk to the network. HTTP belongs to the api package; the Manager
//     only mutates the api client's default Authorization header.
//   - Verify tokens. The token is an opaque bearer string issued by the
//     backend; the client stores and forwards it, nothing more.
//   - Block app startup. Bootstrap degrades to a logged-out session on any
//     storage failure and never returns an error that gates rendering.
package nunu
