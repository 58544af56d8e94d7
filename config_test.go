package goSign

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Keysets = map[string]Keyset{
		"default": {{Algorithm: "HS256", Material: Secret("s3cr3t")}},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Decode.Leeway != 0 {
		t.Fatalf("expected zero default leeway, got %v", cfg.Decode.Leeway)
	}
	if !cfg.Decode.StrictIssuedAt {
		t.Fatal("expected strict iat validation by default")
	}
	if cfg.Metrics.Enabled || cfg.Metrics.EnableLatencyHistograms {
		t.Fatal("expected metrics to be disabled by default")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "no keysets",
			mutate:  func(c *Config) { c.Keysets = nil },
			wantMsg: "at least one keyset",
		},
		{
			name:    "blank keyset name",
			mutate:  func(c *Config) { c.Keysets["  "] = c.Keysets["default"] },
			wantMsg: "name must not be empty",
		},
		{
			name:    "empty keyset",
			mutate:  func(c *Config) { c.Keysets["default"] = Keyset{} },
			wantMsg: "at least one entry",
		},
		{
			name: "multi-entry without key ids",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{
					{Algorithm: "HS256", KeyID: "a", Material: Secret("k1")},
					{Algorithm: "HS256", Material: Secret("k2")},
				}
			},
			wantMsg: "require a key id",
		},
		{
			name: "duplicate key id",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{
					{Algorithm: "HS256", KeyID: "a", Material: Secret("k1")},
					{Algorithm: "HS256", KeyID: "a", Material: Secret("k2")},
				}
			},
			wantMsg: "duplicate key id",
		},
		{
			name: "empty algorithm",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{{Material: Secret("k1")}}
			},
			wantMsg: "algorithm must not be empty",
		},
		{
			name: "unsupported algorithm",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{{Algorithm: "HS9000", Material: Secret("k1")}}
			},
			wantMsg: "unsupported algorithm",
		},
		{
			name: "empty secret",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{{Algorithm: "HS256", Material: Secret(nil)}}
			},
			wantMsg: "secret must not be empty",
		},
		{
			name: "empty key pair",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{{Algorithm: "RS256", Material: KeyPair{}}}
			},
			wantMsg: "public or private key",
		},
		{
			name: "missing material",
			mutate: func(c *Config) {
				c.Keysets["default"] = Keyset{{Algorithm: "HS256"}}
			},
			wantMsg: "key material is required",
		},
		{
			name:    "negative leeway",
			mutate:  func(c *Config) { c.Decode.Leeway = -time.Second },
			wantMsg: "Leeway",
		},
		{
			name:    "excessive leeway",
			mutate:  func(c *Config) { c.Decode.Leeway = 3 * time.Minute },
			wantMsg: "Leeway",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestValidateAcceptsLeewayBoundary(t *testing.T) {
	cfg := validConfig()
	cfg.Decode.Leeway = 2 * time.Minute
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected 2m leeway to be legal: %v", err)
	}
}

func TestCloneConfigIsolatesKeyMaterial(t *testing.T) {
	secret := []byte("s3cr3t")
	cfg := validConfig()
	cfg.Keysets["default"] = Keyset{{Algorithm: "HS256", Material: Secret(secret)}}

	clone := cloneConfig(cfg)
	secret[0] = 'X'

	cloned := clone.Keysets["default"][0].Material.(Secret)
	if cloned[0] != 's' {
		t.Fatal("expected cloned secret to be independent of the caller's slice")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithKeysets(map[string]Keyset{
		"default": {{Algorithm: "HS256", Material: Secret("s3cr3t")}},
	})

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build on the same builder to fail")
	}
}

func TestBuildValidates(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected Build without keysets to fail validation")
	}
}

func TestBuilderClonesCallerKeysets(t *testing.T) {
	keysets := map[string]Keyset{
		"default": {{Algorithm: "HS256", Material: Secret("s3cr3t")}},
	}
	adapter, err := New().WithKeysets(keysets).Build()
	if err != nil {
		t.Fatalf("build adapter: %v", err)
	}

	// Mutating the caller's map after Build must not affect the adapter.
	keysets["default"] = Keyset{{Algorithm: "HS256", Material: Secret("other")}}
	delete(keysets, "default")

	token, err := adapter.Encode(Claims{"sub": "u1"}, "default", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := adapter.Decode(token, "default"); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
