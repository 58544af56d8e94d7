// Package goSign provides a keyset-based JWT signing and verification adapter with a
// closed, stable error taxonomy for embedding authentication frameworks.
//
// The package wraps github.com/golang-jwt/jwt/v5: [Adapter.Encode] signs an open claims
// mapping into a compact token using the first entry of a named keyset, and
// [Adapter.Decode] verifies a token (signature plus exp/nbf/iat) against the named
// keyset, selecting the verification key by the token's "kid" header when the keyset
// holds more than one entry.
//
// Adapters are stateless and reentrant: every call reads only the immutable
// configuration snapshot captured by [Builder.Build], so concurrent use from multiple
// goroutines requires no locking. Keysets are loaded once before first use; hot reload
// is the embedding system's concern.
//
// # Architecture boundaries
//
// goSign is the public surface. It exposes [Adapter], [Builder], [Config], the keyset
// model ([Keyset], [KeyEntry], [Secret], [KeyPair]), and the error kinds in errors.go.
// Key material parsing lives under internal/ and is never exported. Keyset sources
// (YAML files, Redis) live in the keystore sub-package; metric exporters live under
// metrics/export.
//
// # What this package must NOT do
//
//   - Generate, rotate, or revoke keys. It only consumes configured key material.
//   - Validate issuer/audience business rules. Temporal claims (exp, nbf, iat) are
//     checked by the wrapped library; everything else belongs to the caller.
//   - Perform I/O. Encode and Decode are CPU-bound; the only side effect is one
//     error-severity log line on the malformed-token catch-all path.
package goSign
