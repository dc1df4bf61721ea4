package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/observability"
	"github.com/matzehuels/schemagraph/pkg/schema"
)

// Runner executes pipeline stages with caching and consistent logging.
//
// Results are memoized in memory for the most recent (dataset, options) pair
// and stored per stage in the persistent cache. A Runner is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL, if positive, replaces the per-stage default expirations.
	TTL time.Duration

	mu   sync.Mutex
	memo struct {
		key    string
		result *Result
	}
}

// NewRunner creates a runner. A nil cache disables persistent caching, a nil
// keyer uses the default keyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the persistent cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Forget drops the in-memory result so the next run recomputes or reads the
// persistent cache.
func (r *Runner) Forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo.key, r.memo.result = "", nil
}

// =============================================================================
// Full Pipeline
// =============================================================================

// RunFile reads a dataset file and runs the pipeline on it. When opts.Format
// is unset, the format is detected from the file extension.
func (r *Runner) RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dataset %s", path)
	}
	if opts.Format == "" {
		opts.Format = schema.DetectFormat(path)
	}
	return r.Run(ctx, data, opts)
}

// Run executes the full pipeline. Calling Run again with identical bytes and
// options returns the memoized result without recomputing; the copy it
// returns has CacheInfo.MemoHit set. opts.Refresh bypasses both the memo and
// the persistent cache.
func (r *Runner) Run(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash := cache.Hash(data)
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	r.mu.Lock()
	defer r.mu.Unlock()

	if !opts.Refresh && r.memo.result != nil && r.memo.key == key {
		r.Logger.Debug("reusing previous result", "dataset", short(hash))
		res := *r.memo.result
		res.CacheInfo = CacheInfo{MemoHit: true}
		res.Stats = Stats{}
		return &res, nil
	}

	in, ingestHit, ingestTime, err := r.IngestWithCacheInfo(ctx, hash, data, opts)
	if err != nil {
		return nil, err
	}
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, hash, in, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.IngestTime = ingestTime
	res.CacheInfo = CacheInfo{IngestHit: ingestHit, LayoutHit: layoutHit}

	r.memo.key, r.memo.result = key, res
	return res, nil
}

// =============================================================================
// Stages
// =============================================================================

// IngestWithCacheInfo runs the ingest stage and reports whether it was served
// from the persistent cache.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, hash string, data []byte, opts Options) (*Ingested, bool, time.Duration, error) {
	key := r.Keyer.DatasetKey(hash, opts.DatasetKeyOpts())

	if !opts.Refresh {
		var in Ingested
		if r.load(ctx, "dataset", key, &in) {
			return &in, true, 0, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnIngestStart(ctx, string(opts.Format))
	start := time.Now()

	in, err := Ingest(data, opts)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnIngestComplete(ctx, string(opts.Format), observability.IngestStats{}, elapsed, err)
		return nil, false, elapsed, err
	}
	hooks.OnIngestComplete(ctx, string(opts.Format), observability.IngestStats{
		Records:     in.Report.Records,
		Nodes:       in.Report.Nodes,
		Edges:       in.Report.Edges,
		Skipped:     in.Report.Skipped,
		Duplicates:  in.Report.Duplicates,
		Dangling:    in.Report.Dangling,
		Diagnostics: len(in.Diagnostics),
	}, elapsed, nil)

	r.logDiagnostics(in.Diagnostics)
	r.Logger.Info("ingested dataset",
		"records", in.Report.Records,
		"nodes", in.Report.Nodes,
		"edges", in.Report.Edges,
		"groups", in.Report.Groups,
		"skipped", in.Report.Skipped)

	r.store(ctx, "dataset", key, in, cache.TTLDataset)
	return in, false, elapsed, nil
}

// LayoutWithCacheInfo runs the layout stage and reports whether it was served
// from the persistent cache. Fresh results get a new run id.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, hash string, in *Ingested, opts Options) (*Result, bool, error) {
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		var res Result
		if r.load(ctx, "layout", key, &res) {
			return &res, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Engine, len(in.Graph.Nodes))
	start := time.Now()

	res, err := Layout(ctx, in, opts)
	if err != nil {
		return nil, false, err
	}
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Engine, elapsed, res.LayoutFailed)

	res.RunID = uuid.NewString()
	res.DatasetHash = hash
	res.Stats.LayoutTime = elapsed

	r.Logger.Info("laid out graph",
		"engine", res.Engine,
		"direction", res.Direction,
		"routes", len(res.Routes),
		"elapsed", elapsed.Round(time.Millisecond))

	// A failed layout depends on the engine's environment, not only on the
	// inputs, so it is never persisted.
	if !res.LayoutFailed {
		r.store(ctx, "layout", key, res, cache.TTLLayout)
	}
	return res, false, nil
}

// =============================================================================
// Cache Helpers
// =============================================================================

func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := decode(data, v); err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "type", keyType, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	r.Logger.Debug("cache hit", "type", keyType)
	return true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := encode(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Cached values reuse the json field names so the msgpack and JSON views of a
// result agree.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

func (r *Runner) logDiagnostics(diags []Diagnostic) {
	for _, d := range diags {
		switch d.Level {
		case "error":
			r.Logger.Error(d.Message, "code", d.Code, "subject", d.Subject)
		case "warn":
			r.Logger.Warn(d.Message, "code", d.Code, "subject", d.Subject)
		default:
			r.Logger.Debug(d.Message, "code", d.Code, "subject", d.Subject)
		}
	}
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
