package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goSign "github.com/MrEthical07/goSign"
	"github.com/redis/go-redis/v9"
)

// ErrKeysetNotFound is an exported constant or variable used by the signing adapter.
var ErrKeysetNotFound = errors.New("keyset not found")

// RedisSource reads keysets stored as JSON documents in Redis: one document per
// keyset under "<prefix>:keyset:<name>", with the set of names indexed under
// "<prefix>:keysets".
type RedisSource struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSource describes the newredissource operation and its observable behavior.
//
// NewRedisSource may return an error when input validation, dependency calls, or security checks fail.
// NewRedisSource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisSource(client redis.UniversalClient, prefix string) *RedisSource {
	if prefix == "" {
		prefix = "gosign"
	}
	return &RedisSource{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSource) indexKey() string {
	return s.prefix + ":keysets"
}

func (s *RedisSource) keysetKey(name string) string {
	return s.prefix + ":keyset:" + name
}

// Load reads every indexed keyset. The result is a standalone snapshot; later writes
// to Redis do not affect it.
func (s *RedisSource) Load(ctx context.Context) (map[string]goSign.Keyset, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list keysets: %w", err)
	}

	out := make(map[string]goSign.Keyset, len(names))
	for _, name := range names {
		ks, err := s.LoadKeyset(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = ks
	}
	return out, nil
}

// LoadKeyset reads a single keyset by name.
func (s *RedisSource) LoadKeyset(ctx context.Context, name string) (goSign.Keyset, error) {
	raw, err := s.client.Get(ctx, s.keysetKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrKeysetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read keyset %q: %w", name, err)
	}

	var docs []entryDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode keyset %q: %w", name, err)
	}

	// Redis documents hold materialized values; no env expansion.
	return toKeyset(name, docs, false)
}

// Save writes a keyset document and indexes its name. Intended for provisioning
// tooling; the adapter itself never writes.
func (s *RedisSource) Save(ctx context.Context, name string, ks goSign.Keyset) error {
	if name == "" {
		return errors.New("keyset name must not be empty")
	}
	if len(ks) == 0 {
		return fmt.Errorf("keyset %q must contain at least one entry", name)
	}

	data, err := json.Marshal(fromKeyset(ks))
	if err != nil {
		return fmt.Errorf("encode keyset %q: %w", name, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keysetKey(name), data, 0)
	pipe.SAdd(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write keyset %q: %w", name, err)
	}
	return nil
}

// Delete removes a keyset document and its index entry. Deleting an unknown name is a
// no-op.
func (s *RedisSource) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keysetKey(name))
	pipe.SRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete keyset %q: %w", name, err)
	}
	return nil
}
