// Package api is the HTTP client for the TalentLink REST backend.
//
// Every request carries the session's bearer token. A 401 response is
// reported as ErrUnauthenticated so callers can clear the session; any
// other non-2xx status is a *StatusError.
package api
