// Command bench runs a synthetic GET/SET/EXPIRE workload against a set of
// shards and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/shardstore/logging"
	pmet "github.com/IvanBrykalov/shardstore/metrics/prom"
	"github.com/IvanBrykalov/shardstore/shard"
	"github.com/IvanBrykalov/shardstore/store"
)

func main() {
	// ---- Flags ----
	var (
		shards  = flag.Int("shards", runtime.GOMAXPROCS(0), "number of shards")
		buckets = flag.Int("buckets", 1<<16, "initial buckets per shard")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 70, "GET percentage [0..100]")
		expPct   = flag.Int("expires", 10, "EXPIRE percentage [0..100]; the rest are SETs")
		ttl      = flag.Duration("ttl", 500*time.Millisecond, "TTL used by SET EX and EXPIRE (0 = SETs never expire)")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 100_000, "preload entries")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	log := logging.New("bench", false, *debug)

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Infof("pprof: serving at %s", *pprofAddr)
			log.Error(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Infof("metrics: serving at %s", *metricsAddr)
		log.Error(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build shards ----
	var released atomic.Uint64
	nShards := *shards
	if nShards <= 0 {
		nShards = 1
	}
	ss := make([]*shard.Shard, nShards)
	for i := range ss {
		id := strconv.Itoa(i)
		ss[i] = shard.New(shard.Options{
			Name:   "shard-" + id,
			Logger: logging.New("shard-"+id, false, *debug),
			Store: store.Options{
				InitialBuckets: *buckets,
				Metrics:        pmet.New(nil, "kv", "shard", prometheus.Labels{"shard": id}),
				Releaser:       func(*store.Entry) { released.Add(1) },
			},
		})
	}
	defer func() {
		for _, s := range ss {
			_ = s.Close()
		}
	}()
	route := func(k store.Key) *shard.Shard { return ss[k.Hash()%uint64(nShards)] }

	ctx := context.Background()

	// ---- Preload ----
	for i := 0; i < *preload; i++ {
		k := store.StringKey("k:" + strconv.Itoa(i))
		v := []byte("v" + strconv.Itoa(i))
		_ = route(k).Post(func(st *store.Store) { st.Replace(store.NewBytes(k, v), 0) })
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal, expPctVal := *readPct, *expPct
	ttlVal := *ttl
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal, zipfVVal := *zipfS, *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var gets, sets, expires, hits, misses, total atomic.Uint64
	runCtx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)
			keyByZipf := func() store.Key {
				return store.StringKey("k:" + strconv.FormatUint(localZipf.Uint64(), 10))
			}

			for runCtx.Err() == nil {
				total.Add(1)
				k := keyByZipf()
				s := route(k)
				var err error
				switch p := int(localR.Int31n(100)); {
				case p < readPctVal:
					gets.Add(1)
					var ok bool
					err = s.Do(ctx, func(st *store.Store) error {
						ok = st.Exists(k)
						return nil
					})
					if ok {
						hits.Add(1)
					} else {
						misses.Add(1)
					}
				case p < readPctVal+expPctVal:
					expires.Add(1)
					err = s.Do(ctx, func(st *store.Store) error {
						st.Expire(k, ttlVal)
						return nil
					})
				default:
					sets.Add(1)
					v := []byte("v" + strconv.Itoa(localR.Int()))
					err = s.Do(ctx, func(st *store.Store) error {
						st.InsertIf(store.NewBytes(k, v), ttlVal, false, false)
						return nil
					})
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("workload: %v", err)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	var resident, expiring int
	for _, s := range ss {
		_ = s.Do(ctx, func(st *store.Store) error {
			resident += st.Len()
			expiring += st.ExpiringLen()
			return nil
		})
	}

	ops, getsN := total.Load(), gets.Load()
	hitRate := 0.0
	if getsN > 0 {
		hitRate = float64(hits.Load()) / float64(getsN) * 100
	}

	fmt.Printf("shards=%d workers=%d keys=%d ttl=%v dur=%v seed=%d\n",
		nShards, workersN, *keys, ttlVal, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  gets=%d  sets=%d  expires=%d\n",
		ops, float64(ops)/elapsed.Seconds(), getsN, sets.Load(), expires.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hits.Load(), misses.Load(), hitRate)
	fmt.Printf("resident=%d  expiring=%d  released=%d\n", resident, expiring, released.Load())
}
