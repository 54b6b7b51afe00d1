package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/cache"
	"github.com/drpeachy/tagbubbles/pkg/observability"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Simulate
	hooks := observability.Pipeline()
	hooks.OnSimulateStart(ctx, opts.Showcase, len(opts.Labels))
	simStart := time.Now()
	frame, simHit, err := r.SimulateWithCacheInfo(ctx, opts)
	result.Stats.SimulateTime = time.Since(simStart)
	hooks.OnSimulateComplete(ctx, opts.Showcase, opts.Steps, result.Stats.SimulateTime, err)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Frame = frame
	result.Stats.Items = len(frame.Items)
	result.Stats.Lines = len(frame.Lines)
	result.Stats.Steps = opts.Steps
	result.CacheInfo.SnapshotHit = simHit

	opts.Logger.Info("simulated showcase",
		"showcase", opts.Showcase,
		"items", len(frame.Items),
		"steps", opts.Steps,
		"cached", simHit,
		"duration", result.Stats.SimulateTime)

	// Stage 2: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.renderWithCacheInfo(ctx, frame, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SnapshotHash = hash
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SimulateWithCacheInfo produces the snapshot frame and reports whether it
// came from the cache. Unseeded runs always simulate.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, opts Options) (bubbles.Frame, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSimulate(); err != nil {
		return bubbles.Frame{}, false, err
	}

	cacheable := opts.Seeded()
	key := r.Keyer.SnapshotKey(opts.configHash(), opts.SnapshotKeyOpts())
	ch := observability.Cache()

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if f, _, err := sink.ReadJSON(data); err == nil {
				ch.OnCacheHit(ctx, key)
				return f, true, nil
			}
			// Undecodable entries fall through and are overwritten
		} else if err != nil {
			opts.Logger.Warn("snapshot cache read failed", "error", err)
		}
		ch.OnCacheMiss(ctx, key)
	}

	f, err := Simulate(ctx, opts)
	if err != nil {
		return bubbles.Frame{}, false, err
	}

	if cacheable {
		if data, err := sink.RenderJSON(f); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLSnapshot); err != nil {
				opts.Logger.Warn("snapshot cache write failed", "error", err)
			} else {
				ch.OnCacheSet(ctx, key, len(data))
			}
		}
	}
	return f, false, nil
}

// Simulate is a convenience wrapper that calls SimulateWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Simulate(ctx context.Context, opts Options) (bubbles.Frame, error) {
	f, _, err := r.SimulateWithCacheInfo(ctx, opts)
	return f, err
}

// RenderWithCacheInfo renders every requested format of f and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f bubbles.Frame, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, f, opts)
	return artifacts, hit, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, f bubbles.Frame, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	snapshot, err := sink.RenderJSON(f)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	hash := cache.Hash(snapshot)

	if !opts.Seeded() {
		artifacts, err := Render(ctx, f, opts)
		return artifacts, hash, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, key)
				break
			}
			observability.Cache().OnCacheHit(ctx, key)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, hash, true, nil
		}
	}

	rendered, err := Render(ctx, f, opts)
	if err != nil {
		return nil, hash, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return rendered, hash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f bubbles.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Simulate builds the engine and advances it opts.Steps frames of 1/60 s.
// It checks ctx once per simulated second.
func Simulate(ctx context.Context, opts Options) (bubbles.Frame, error) {
	e, err := bubbles.New(opts.EngineConfig())
	if err != nil {
		return bubbles.Frame{}, err
	}
	for i := range opts.Steps {
		if i%60 == 0 {
			if err := ctx.Err(); err != nil {
				return bubbles.Frame{}, err
			}
		}
		e.Step(FrameStep)
	}
	return e.Frame(), nil
}
