package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/observability"
)

// Runner executes the pipeline with artifact caching. The CLI, the
// watcher and the server share this type. Logger is used unless the
// options carry their own.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// executions with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects [cache.DefaultKeyer], a
// nil cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// ExecuteFile loads the document at path and runs the full pipeline.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	start := time.Now()
	doc, err := Load(path)
	loadTime := time.Since(start)
	elements := 0
	if doc != nil {
		elements = len(doc.Elements)
	}
	observability.Pipeline().OnLoad(ctx, path, elements, loadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	res, err := r.Execute(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.LoadTime = loadTime
	return res, nil
}

// Execute runs layout and render for an in-memory document.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res, err := r.Layout(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.CacheInfo = info
	res.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Layout normalizes doc, computes its layout and primitives, and fills
// the cache keys of the returned result. Artifacts are left empty.
func (r *Runner) Layout(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	ds, err := Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	canonical, err := doc.Canonical()
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}

	res := &Result{
		Dataset: ds,
		DocHash: cache.Hash(canonical),
		Stats: Stats{
			Entities:   len(ds.Entities()),
			Dimensions: len(ds.Dimensions()),
			Stages:     len(ds.Stages()),
		},
	}
	res.LayoutKey = r.Keyer.LayoutKey(res.DocHash, opts.LayoutKeyOpts())

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, res.Stats.Entities, res.Stats.Dimensions)
	start := time.Now()
	l, ps, err := Layout(ds, opts)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Stats.Entities, res.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Layout = l
	res.Primitives = ps

	opts.Logger.Info("computed layout",
		"entities", res.Stats.Entities,
		"dimensions", res.Stats.Dimensions,
		"stages", res.Stats.Stages,
		"duration", res.Stats.LayoutTime)
	opts.Logger.Debug("layout options", "opts", opts.String(), "key", res.LayoutKey)
	return res, nil
}

// RenderWithCacheInfo renders every requested format of res, serving
// cached artifacts where possible. Only the missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, CacheInfo{}, err
	}

	var info CacheInfo
	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(res.LayoutKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if hit {
				cacheHooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, format)
		}
		missing = append(missing, format)
	}
	info.RenderHit = len(missing) == 0

	if len(missing) > 0 {
		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, missing)
		start := time.Now()
		rendered, err := Render(ctx, res.Layout, res.Primitives, missing, opts)
		hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
		if err != nil {
			return nil, info, err
		}

		for format, data := range rendered {
			artifacts[format] = data
			key := r.Keyer.ArtifactKey(res.LayoutKey, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "err", err)
				continue
			}
			cacheHooks.OnCacheSet(ctx, format, len(data))
		}
	}
	return artifacts, info, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
