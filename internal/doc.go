// Package internal contains helper utilities that are intentionally private to goSign.
//
// # Sub-packages
//
//   - keymat — PEM key material parsing and legacy passphrase decryption
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSign API.
//   - Be imported by any package outside the goSign module.
package internal
