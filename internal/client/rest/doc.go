// Package rest is the HTTP client the terminal app uses to talk to the
// PassVault REST API.
//
// Every call takes a context and returns either a decoded payload or an
// error. Non-2xx responses become *APIError carrying the HTTP status and
// the server's message; transport failures are reported as ErrUnavailable
// and can be matched with errors.Is. Idempotent reads are retried with
// exponential backoff when the server answers 502, 503 or 504 or cannot
// be reached.
package rest
