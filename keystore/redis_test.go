package keystore

import (
	"context"
	"errors"
	"testing"

	goSign "github.com/MrEthical07/goSign"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSourceRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	source := NewRedisSource(client, "")
	ctx := context.Background()

	keysets := map[string]goSign.Keyset{
		"default": {{Algorithm: "HS256", Material: goSign.Secret("s3cr3t")}},
		"multi": {
			{Algorithm: "HS256", KeyID: "a", Material: goSign.Secret("k1")},
			{Algorithm: "HS256", KeyID: "b", Material: goSign.Secret("k2")},
		},
	}
	for name, ks := range keysets {
		if err := source.Save(ctx, name, ks); err != nil {
			t.Fatalf("save keyset %q: %v", name, err)
		}
	}

	loaded, err := source.Load(ctx)
	if err != nil {
		t.Fatalf("load keysets: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 keysets, got %d", len(loaded))
	}
	if got := loaded["multi"]; len(got) != 2 || got[1].KeyID != "b" {
		t.Fatalf("unexpected multi keyset: %+v", got)
	}
	secret, ok := loaded["default"][0].Material.(goSign.Secret)
	if !ok || string(secret) != "s3cr3t" {
		t.Fatalf("unexpected default material: %+v", loaded["default"][0].Material)
	}

	adapter, err := goSign.New().WithKeysets(loaded).Build()
	if err != nil {
		t.Fatalf("build adapter from redis keysets: %v", err)
	}
	token, err := adapter.Encode(goSign.Claims{"sub": "u1"}, "multi", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := adapter.Decode(token, "multi"); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRedisSourceLoadKeysetNotFound(t *testing.T) {
	_, client := newTestRedis(t)
	source := NewRedisSource(client, "")

	_, err := source.LoadKeyset(context.Background(), "missing")
	if !errors.Is(err, ErrKeysetNotFound) {
		t.Fatalf("expected ErrKeysetNotFound, got %v", err)
	}
}

func TestRedisSourceDelete(t *testing.T) {
	_, client := newTestRedis(t)
	source := NewRedisSource(client, "")
	ctx := context.Background()

	ks := goSign.Keyset{{Algorithm: "HS256", Material: goSign.Secret("s3cr3t")}}
	if err := source.Save(ctx, "default", ks); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := source.Delete(ctx, "default"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := source.LoadKeyset(ctx, "default"); !errors.Is(err, ErrKeysetNotFound) {
		t.Fatalf("expected ErrKeysetNotFound after delete, got %v", err)
	}
	loaded, err := source.Load(ctx)
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected no keysets after delete, got %v", loaded)
	}

	// Deleting an unknown name is a no-op.
	if err := source.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete unknown keyset: %v", err)
	}
}

func TestRedisSourceSaveValidation(t *testing.T) {
	_, client := newTestRedis(t)
	source := NewRedisSource(client, "")
	ctx := context.Background()

	ks := goSign.Keyset{{Algorithm: "HS256", Material: goSign.Secret("s3cr3t")}}
	if err := source.Save(ctx, "", ks); err == nil {
		t.Fatal("expected an error for an empty keyset name")
	}
	if err := source.Save(ctx, "default", nil); err == nil {
		t.Fatal("expected an error for an empty keyset")
	}
}

func TestRedisSourceCustomPrefix(t *testing.T) {
	mr, client := newTestRedis(t)
	source := NewRedisSource(client, "signing")
	ctx := context.Background()

	ks := goSign.Keyset{{Algorithm: "HS256", Material: goSign.Secret("s3cr3t")}}
	if err := source.Save(ctx, "default", ks); err != nil {
		t.Fatalf("save: %v", err)
	}

	if !mr.Exists("signing:keyset:default") {
		t.Fatal("expected the keyset document under the custom prefix")
	}
	if !mr.Exists("signing:keysets") {
		t.Fatal("expected the index under the custom prefix")
	}
}
