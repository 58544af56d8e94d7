package goSign

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Adapter defines a public type used by goSign APIs.
//
// Adapter instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Adapter struct {
	config   Config
	resolver keyResolver
	logger   *zap.Logger
	metrics  *Metrics
}

// Encode describes the encode operation and its observable behavior.
//
// Encode may return an error when input validation, dependency calls, or security checks fail.
// Encode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Encode signs claims with the first entry of the named keyset, regardless of keyset
// size. A non-empty key id on that entry is embedded in the token header as "kid".
// Optional headers are merged into the token header; "alg" and "typ" belong to the
// signing method and are never overridden. Claims are signed as provided — no
// registered claims (iat, exp, ...) are injected.
func (a *Adapter) Encode(claims Claims, keysetName string, headers Headers) (string, error) {
	rk, kid, err := a.resolver.signingKey(keysetName)
	if err != nil {
		a.metrics.Inc(MetricEncodeFailure)
		return "", err
	}

	if claims == nil {
		claims = Claims{}
	}

	token := jwt.NewWithClaims(rk.method, jwt.MapClaims(claims))
	for k, v := range headers {
		if k == "alg" || k == "typ" {
			continue
		}
		token.Header[k] = v
	}
	if kid != "" {
		token.Header["kid"] = kid
	}

	signed, err := token.SignedString(rk.key)
	if err != nil {
		a.metrics.Inc(MetricEncodeFailure)
		return "", fmt.Errorf("%w: sign token: %w", ErrAdapterConfiguration, err)
	}

	a.metrics.Inc(MetricEncodeSuccess)
	return signed, nil
}

// Decode describes the decode operation and its observable behavior.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Decode verifies the token's signature against the named keyset and validates the
// temporal claims (exp, nbf, and iat when StrictIssuedAt is set). When the keyset
// holds more than one entry, the token header must declare a "kid" present in the
// keyset. All failures map onto the closed error taxonomy in errors.go and are
// terminal for the call; nothing is retried.
func (a *Adapter) Decode(token string, keysetName string) (Claims, error) {
	start := time.Now()

	single, byKID, methods, err := a.resolver.verificationKeys(keysetName)
	if err != nil {
		a.metrics.Inc(MetricDecodeConfigFailure)
		return nil, err
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
	}
	if a.config.Decode.Leeway > 0 {
		options = append(options, jwt.WithLeeway(a.config.Decode.Leeway))
	}
	if a.config.Decode.StrictIssuedAt {
		options = append(options, jwt.WithIssuedAt())
	}

	parser := jwt.NewParser(options...)
	claims := jwt.MapClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if byKID != nil {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("missing kid header")
			}
			rk, ok := byKID[kid]
			if !ok {
				return nil, fmt.Errorf("unknown kid %q", kid)
			}
			if t.Method.Alg() != rk.method.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm %s for kid %q", t.Method.Alg(), kid)
			}
			return rk.key, nil
		}

		if t.Method.Alg() != single.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return single.key, nil
	})

	a.metrics.Observe(MetricDecodeLatency, time.Since(start))

	if err != nil {
		return nil, a.mapDecodeError(err)
	}
	if !parsed.Valid {
		a.metrics.Inc(MetricDecodeRejected)
		return nil, ErrTokenInvalid
	}

	a.metrics.Inc(MetricDecodeSuccess)
	return Claims(claims), nil
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Adapter) MetricsSnapshot() MetricsSnapshot {
	return a.metrics.Snapshot()
}

// mapDecodeError folds the backend's failure modes into the closed error taxonomy.
// Only the catch-all path logs: it conflates hostile input with configuration bugs,
// and operators need to tell the two apart from logs.
func (a *Adapter) mapDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		a.metrics.Inc(MetricDecodeExpired)
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)

	case errors.Is(err, jwt.ErrTokenNotValidYet) || errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		a.metrics.Inc(MetricDecodeNotYetValid)
		return fmt.Errorf("%w: %w", ErrTokenNotYetValid, err)

	case errors.Is(err, jwt.ErrInvalidKeyType) || errors.Is(err, jwt.ErrInvalidKey) || errors.Is(err, jwt.ErrHashUnavailable):
		a.metrics.Inc(MetricDecodeConfigFailure)
		return fmt.Errorf("%w: %w", ErrAdapterConfiguration, err)

	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		a.metrics.Inc(MetricDecodeSignatureInvalid)
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)

	default:
		a.metrics.Inc(MetricDecodeRejected)
		a.logger.Error("token rejected",
			zap.String("event_id", uuid.NewString()),
			zap.String("error_type", fmt.Sprintf("%T", err)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}
