package goSign

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goSign/internal/keymat"
)

// resolvedKey is the materialized (key, algorithm) pair handed to the signing backend.
type resolvedKey struct {
	method jwt.SigningMethod
	key    any
}

// keyResolver turns a configured keyset name into key material the signing backend can
// consume. It only reads the immutable configuration snapshot; no side effects.
type keyResolver struct {
	keysets map[string]Keyset
}

func (r keyResolver) keyset(name string) (Keyset, error) {
	ks, ok := r.keysets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown keyset %q", ErrInvalidKeyset, name)
	}
	if len(ks) == 0 {
		return nil, fmt.Errorf("%w: keyset %q is empty", ErrInvalidKeyset, name)
	}
	return ks, nil
}

// signingKey resolves the first entry of the named keyset for signing and returns the
// resolved key plus the normalized key id ("" when the entry carries none).
func (r keyResolver) signingKey(name string) (resolvedKey, string, error) {
	ks, err := r.keyset(name)
	if err != nil {
		return resolvedKey{}, "", err
	}

	entry := ks[0]
	method, err := keymat.Method(entry.Algorithm)
	if err != nil {
		return resolvedKey{}, "", fmt.Errorf("%w: %w", ErrAdapterConfiguration, err)
	}

	kid := strings.TrimSpace(entry.KeyID)

	switch m := entry.Material.(type) {
	case Secret:
		if len(m) == 0 {
			return resolvedKey{}, "", fmt.Errorf("%w: keyset %q first entry has an empty secret", ErrInvalidKeyset, name)
		}
		return resolvedKey{method: method, key: []byte(m)}, kid, nil
	case KeyPair:
		key, err := keymat.ParsePrivate(entry.Algorithm, m.Private, m.Passphrase)
		if err != nil {
			return resolvedKey{}, "", fmt.Errorf("%w: keyset %q: %w", ErrAdapterConfiguration, name, err)
		}
		return resolvedKey{method: method, key: key}, kid, nil
	default:
		return resolvedKey{}, "", fmt.Errorf("%w: keyset %q first entry carries no key material", ErrInvalidKeyset, name)
	}
}

// verificationKeys resolves the named keyset for verification. A single-entry keyset
// yields one resolved key; a multi-entry keyset yields a kid-to-key mapping and
// requires a key id on every entry. The returned algorithm list feeds the parser's
// valid-methods allowlist.
func (r keyResolver) verificationKeys(name string) (*resolvedKey, map[string]resolvedKey, []string, error) {
	ks, err := r.keyset(name)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(ks) == 1 {
		rk, err := r.verificationKey(name, ks[0])
		if err != nil {
			return nil, nil, nil, err
		}
		return &rk, nil, []string{rk.method.Alg()}, nil
	}

	byKID := make(map[string]resolvedKey, len(ks))
	methods := make([]string, 0, len(ks))
	seenAlg := make(map[string]struct{}, len(ks))

	for i, entry := range ks {
		kid := strings.TrimSpace(entry.KeyID)
		if kid == "" {
			return nil, nil, nil, fmt.Errorf("%w: keyset %q entry %d lacks a key id", ErrInvalidKeyset, name, i)
		}
		if _, dup := byKID[kid]; dup {
			return nil, nil, nil, fmt.Errorf("%w: keyset %q has duplicate key id %q", ErrInvalidKeyset, name, kid)
		}

		rk, err := r.verificationKey(name, entry)
		if err != nil {
			return nil, nil, nil, err
		}
		byKID[kid] = rk

		if _, dup := seenAlg[rk.method.Alg()]; !dup {
			seenAlg[rk.method.Alg()] = struct{}{}
			methods = append(methods, rk.method.Alg())
		}
	}

	return nil, byKID, methods, nil
}

func (r keyResolver) verificationKey(name string, entry KeyEntry) (resolvedKey, error) {
	method, err := keymat.Method(entry.Algorithm)
	if err != nil {
		return resolvedKey{}, fmt.Errorf("%w: %w", ErrAdapterConfiguration, err)
	}

	switch m := entry.Material.(type) {
	case Secret:
		if len(m) == 0 {
			return resolvedKey{}, fmt.Errorf("%w: keyset %q entry has an empty secret", ErrInvalidKeyset, name)
		}
		return resolvedKey{method: method, key: []byte(m)}, nil
	case KeyPair:
		if len(m.Public) == 0 {
			return resolvedKey{}, fmt.Errorf("%w: keyset %q entry lacks a public key for verification", ErrInvalidKeyset, name)
		}
		key, err := keymat.ParsePublic(entry.Algorithm, m.Public)
		if err != nil {
			return resolvedKey{}, fmt.Errorf("%w: keyset %q: %w", ErrAdapterConfiguration, name, err)
		}
		return resolvedKey{method: method, key: key}, nil
	default:
		return resolvedKey{}, fmt.Errorf("%w: keyset %q entry carries no key material", ErrInvalidKeyset, name)
	}
}
