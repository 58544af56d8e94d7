// Package keystore loads named keysets from external configuration sources: YAML
// files (with ${VAR} environment expansion and optional .env preloading) and Redis.
//
// Sources produce plain map[string]goSign.Keyset snapshots. Loading happens once at
// startup; the adapter never reloads. An embedding system that needs hot reload must
// rebuild the adapter with a fresh snapshot itself.
//
// # What this package must NOT do
//
//   - Generate or rotate key material.
//   - Cache or watch sources. One call, one snapshot.
package keystore
