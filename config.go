package goSign

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config defines a public type used by goSign APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Keysets map[string]Keyset
	Decode  DecodeConfig
	Metrics MetricsConfig
}

/*
====================================
KEYSET MODEL
====================================
*/

// Keyset defines a public type used by goSign APIs.
//
// Keyset instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Entry order matters: Encode always signs with the first entry. A keyset with more
// than one entry must carry a non-empty KeyID on every entry so Decode can select the
// verification key by the token's "kid" header.
type Keyset []KeyEntry

// KeyEntry defines a public type used by goSign APIs.
//
// KeyEntry instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type KeyEntry struct {
	Algorithm string // JWS algorithm identifier, e.g. "HS256", "RS256", "ES256", "EdDSA"
	KeyID     string // optional; empty means "no key id"
	Material  KeyMaterial
}

// KeyMaterial defines a public type used by goSign APIs.
//
// KeyMaterial is a closed union: a [KeyEntry] holds either a [Secret] or a [KeyPair],
// never both. The interface is sealed so the invariant is enforceable at construction.
type KeyMaterial interface {
	material()
}

// Secret defines a public type used by goSign APIs.
//
// Secret is opaque symmetric key material for HMAC algorithms.
type Secret []byte

func (Secret) material() {}

// KeyPair defines a public type used by goSign APIs.
//
// KeyPair holds PEM-encoded asymmetric key material. Public is used for verification,
// Private for signing. A non-empty Passphrase decrypts the private key before use; an
// empty Passphrase means the private key is used as-is.
type KeyPair struct {
	Public     []byte
	Private    []byte
	Passphrase string
}

func (KeyPair) material() {}

/*
====================================
DECODE CONFIG
====================================
*/

// DecodeConfig defines a public type used by goSign APIs.
//
// DecodeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DecodeConfig struct {
	Leeway         time.Duration
	StrictIssuedAt bool // reject tokens whose iat lies in the future
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSign APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Keysets: map[string]Keyset{},
		Decode: DecodeConfig{
			Leeway:         0,
			StrictIssuedAt: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Decode.Leeway < 0 || c.Decode.Leeway > 2*time.Minute {
		return errors.New("Decode Leeway must be between 0 and 2 minutes")
	}

	if len(c.Keysets) == 0 {
		return errors.New("at least one keyset must be configured")
	}

	for name, ks := range c.Keysets {
		if strings.TrimSpace(name) == "" {
			return errors.New("keyset name must not be empty")
		}
		if err := validateKeyset(name, ks); err != nil {
			return err
		}
	}

	return nil
}

func validateKeyset(name string, ks Keyset) error {
	if len(ks) == 0 {
		return fmt.Errorf("keyset %q must contain at least one entry", name)
	}

	seen := make(map[string]struct{}, len(ks))
	for i, entry := range ks {
		kid := strings.TrimSpace(entry.KeyID)

		if len(ks) > 1 && kid == "" {
			return fmt.Errorf("keyset %q entry %d: multi-entry keysets require a key id on every entry", name, i)
		}
		if kid != "" {
			if _, dup := seen[kid]; dup {
				return fmt.Errorf("keyset %q: duplicate key id %q", name, kid)
			}
			seen[kid] = struct{}{}
		}

		if strings.TrimSpace(entry.Algorithm) == "" {
			return fmt.Errorf("keyset %q entry %d: algorithm must not be empty", name, i)
		}
		if jwt.GetSigningMethod(entry.Algorithm) == nil {
			return fmt.Errorf("keyset %q entry %d: unsupported algorithm %q", name, i, entry.Algorithm)
		}

		switch m := entry.Material.(type) {
		case Secret:
			if len(m) == 0 {
				return fmt.Errorf("keyset %q entry %d: secret must not be empty", name, i)
			}
		case KeyPair:
			if len(m.Public) == 0 && len(m.Private) == 0 {
				return fmt.Errorf("keyset %q entry %d: key pair must carry a public or private key", name, i)
			}
		case nil:
			return fmt.Errorf("keyset %q entry %d: key material is required", name, i)
		default:
			return fmt.Errorf("keyset %q entry %d: unknown key material type %T", name, i, entry.Material)
		}
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Keysets = make(map[string]Keyset, len(cfg.Keysets))
	for name, ks := range cfg.Keysets {
		out.Keysets[name] = cloneKeyset(ks)
	}
	return out
}

func cloneKeyset(ks Keyset) Keyset {
	out := make(Keyset, len(ks))
	for i, entry := range ks {
		cloned := entry
		switch m := entry.Material.(type) {
		case Secret:
			cloned.Material = Secret(cloneBytes(m))
		case KeyPair:
			cloned.Material = KeyPair{
				Public:     cloneBytes(m.Public),
				Private:    cloneBytes(m.Private),
				Passphrase: m.Passphrase,
			}
		}
		out[i] = cloned
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
