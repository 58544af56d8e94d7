// Package middleware exposes an HTTP guard built on top of goSign.Adapter
// verification.
//
// [Guard] reads the Authorization header, calls Adapter.Decode against a configured
// keyset, and injects the decoded claims into the request context. Token failures map
// to 401; keyset and adapter configuration failures map to 500, since they are
// server-side problems rather than client faults.
package middleware
