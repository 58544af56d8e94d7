// Command gosign-bench measures encode/decode throughput of the signing adapter.
//
// Keysets are loaded from Redis when -redis-addr (or REDIS_ADDR) points at a
// provisioned instance; otherwise a throwaway miniredis is seeded with an HS256
// keyset so the full keystore path is still exercised.
//
// Run:
//
//	go run ./cmd/gosign-bench -ops 200000 -concurrency 256
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSign "github.com/MrEthical07/goSign"
	"github.com/MrEthical07/goSign/keystore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		ops         = flag.Int("ops", 200000, "operations per phase (encode + decode)")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		keysetName  = flag.String("keyset", "bench", "keyset name to sign and verify with")
		alg         = flag.String("alg", "HS256", "algorithm for the seeded keyset (miniredis mode only)")
	)
	flag.Parse()

	if *ops <= 0 || *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "ops and concurrency must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)

		source := keystore.NewRedisSource(client, "")
		if err := source.Save(ctx, *keysetName, goSign.Keyset{
			{Algorithm: *alg, Material: goSign.Secret("bench-secret-bench-secret")},
		}); err != nil {
			fmt.Fprintf(os.Stderr, "seed keyset: %v\n", err)
			os.Exit(1)
		}
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	keysets, err := keystore.NewRedisSource(client, "").Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load keysets: %v\n", err)
		os.Exit(1)
	}

	adapter, err := goSign.New().
		WithKeysets(keysets).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build adapter: %v\n", err)
		os.Exit(1)
	}

	encodeStats, tokens := runEncodePhase(adapter, *keysetName, *ops, *concurrency)
	decodeStats := runDecodePhase(adapter, *keysetName, tokens, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("encode", encodeStats)
	printStats("decode", decodeStats)

	snapshot := adapter.MetricsSnapshot()
	fmt.Printf("counters: encode_success=%d decode_success=%d decode_rejected=%d\n",
		snapshot.Counters[goSign.MetricEncodeSuccess],
		snapshot.Counters[goSign.MetricDecodeSuccess],
		snapshot.Counters[goSign.MetricDecodeRejected],
	)
}

func runEncodePhase(adapter *goSign.Adapter, keyset string, ops, concurrency int) (phaseStats, []string) {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		tokens    = make([]string, ops)
		mu        sync.Mutex
	)

	now := time.Now()
	exp := now.Add(time.Hour).Unix()

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				token, err := adapter.Encode(goSign.Claims{
					"sub": fmt.Sprintf("user-%d", i),
					"exp": exp,
				}, keyset, nil)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				} else {
					tokens[i] = token
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures), tokens
}

func runDecodePhase(adapter *goSign.Adapter, keyset string, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				token := tokens[i%len(tokens)]
				t0 := time.Now()
				_, err := adapter.Decode(token, keyset)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
