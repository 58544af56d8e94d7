package keystore

import (
	"fmt"
	"os"

	goSign "github.com/MrEthical07/goSign"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// entryDoc is the serialized form of a key entry, shared by the YAML and Redis
// sources. Exactly one of secret or public/private key material must be set.
type entryDoc struct {
	Algorithm  string `yaml:"alg" json:"alg"`
	KeyID      string `yaml:"kid,omitempty" json:"kid,omitempty"`
	Secret     string `yaml:"secret,omitempty" json:"secret,omitempty"`
	PublicKey  string `yaml:"public_key,omitempty" json:"public_key,omitempty"`
	PrivateKey string `yaml:"private_key,omitempty" json:"private_key,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty" json:"passphrase,omitempty"`
}

type fileDoc struct {
	Keysets map[string][]entryDoc `yaml:"keysets"`
}

// FromYAML parses keysets from YAML. ${VAR} references inside secret, key, and
// passphrase fields are expanded from the process environment, so key material can be
// kept out of the file itself.
func FromYAML(data []byte) (map[string]goSign.Keyset, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse keyset yaml: %w", err)
	}
	if len(doc.Keysets) == 0 {
		return nil, fmt.Errorf("keyset yaml defines no keysets")
	}

	out := make(map[string]goSign.Keyset, len(doc.Keysets))
	for name, entries := range doc.Keysets {
		ks, err := toKeyset(name, entries, true)
		if err != nil {
			return nil, err
		}
		out[name] = ks
	}
	return out, nil
}

// FromYAMLFile reads and parses a keyset YAML file. When env files are given they are
// loaded first (godotenv), so ${VAR} references in the file resolve against them.
func FromYAMLFile(path string, envFiles ...string) (map[string]goSign.Keyset, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyset file: %w", err)
	}

	return FromYAML(data)
}

func toKeyset(name string, entries []entryDoc, expandEnv bool) (goSign.Keyset, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("keyset %q defines no entries", name)
	}

	expand := func(s string) string {
		if expandEnv {
			return os.ExpandEnv(s)
		}
		return s
	}

	ks := make(goSign.Keyset, 0, len(entries))
	for i, e := range entries {
		hasSecret := e.Secret != ""
		hasPair := e.PublicKey != "" || e.PrivateKey != ""

		if hasSecret && hasPair {
			return nil, fmt.Errorf("keyset %q entry %d: secret and key pair are mutually exclusive", name, i)
		}
		if !hasSecret && !hasPair {
			return nil, fmt.Errorf("keyset %q entry %d: key material is required", name, i)
		}

		entry := goSign.KeyEntry{
			Algorithm: e.Algorithm,
			KeyID:     e.KeyID,
		}
		if hasSecret {
			entry.Material = goSign.Secret(expand(e.Secret))
		} else {
			entry.Material = goSign.KeyPair{
				Public:     []byte(expand(e.PublicKey)),
				Private:    []byte(expand(e.PrivateKey)),
				Passphrase: expand(e.Passphrase),
			}
		}
		ks = append(ks, entry)
	}

	return ks, nil
}

func fromKeyset(ks goSign.Keyset) []entryDoc {
	docs := make([]entryDoc, 0, len(ks))
	for _, entry := range ks {
		doc := entryDoc{
			Algorithm: entry.Algorithm,
			KeyID:     entry.KeyID,
		}
		switch m := entry.Material.(type) {
		case goSign.Secret:
			doc.Secret = string(m)
		case goSign.KeyPair:
			doc.PublicKey = string(m.Public)
			doc.PrivateKey = string(m.Private)
			doc.Passphrase = m.Passphrase
		}
		docs = append(docs, doc)
	}
	return docs
}
