// Package api is the Nunu backend client: one shared HTTP client with a
// fixed base address, a mutable default header map (the session manager
// owns the Authorization entry), and a response interceptor that logs
// failures and re-raises them unchanged so callers can branch on status.
//
// The package performs no retries and applies no transformation to error
// responses; the only timeout is the transport-level one configured at
// construction.
package api
