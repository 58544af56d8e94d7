// Package keymat parses configured key material into the key types the signing
// backend expects: HMAC secrets stay raw bytes, asymmetric keys are decoded from PEM
// (with optional legacy passphrase decryption) per algorithm family.
package keymat

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Method maps a JWS algorithm identifier to the backend's registered signing method.
func Method(alg string) (jwt.SigningMethod, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unsupported algorithm %q", alg)
	}
	return method, nil
}

// ParsePrivate decodes a PEM-encoded private key for the given algorithm. A non-empty
// passphrase decrypts the PEM block before parsing; an empty passphrase means the key
// is expected to be unencrypted.
func ParsePrivate(alg string, pemBytes []byte, passphrase string) (any, error) {
	if len(pemBytes) == 0 {
		return nil, errors.New("missing private key")
	}

	if passphrase != "" {
		decrypted, err := decryptPEM(pemBytes, passphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypt private key: %w", err)
		}
		pemBytes = decrypted
	}

	switch {
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		return jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	case strings.HasPrefix(alg, "ES"):
		return jwt.ParseECPrivateKeyFromPEM(pemBytes)
	case alg == "EdDSA":
		return jwt.ParseEdPrivateKeyFromPEM(pemBytes)
	default:
		return nil, fmt.Errorf("algorithm %q does not take a PEM private key", alg)
	}
}

// ParsePublic decodes a PEM-encoded public key (or certificate) for the given
// algorithm.
func ParsePublic(alg string, pemBytes []byte) (any, error) {
	if len(pemBytes) == 0 {
		return nil, errors.New("missing public key")
	}

	switch {
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	case strings.HasPrefix(alg, "ES"):
		return jwt.ParseECPublicKeyFromPEM(pemBytes)
	case alg == "EdDSA":
		return jwt.ParseEdPublicKeyFromPEM(pemBytes)
	default:
		return nil, fmt.Errorf("algorithm %q does not take a PEM public key", alg)
	}
}

// decryptPEM handles RFC 1423 encrypted PEM blocks (what openssl emits with
// -aes256/-des3). The x509 helpers are deprecated upstream but remain the only
// stdlib reader for this format.
func decryptPEM(data []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	// A passphrase configured against an unencrypted key is accepted; the key is
	// used as-is.
	if !x509.IsEncryptedPEMBlock(block) {
		return data, nil
	}

	der, err := x509.DecryptPEMBlock(block, []byte(passphrase))
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
}
