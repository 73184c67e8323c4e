// Package pourbaix provides the application-level service for diagram
// construction and queries. It sits between the CLI and the domain package
// and adds logging, metrics, caching and parallel stability maps.
package pourbaix

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/pourbaix-engine/internal/config"
	domain "github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	rediscache "github.com/turtacn/pourbaix-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

// snapshotCacheName labels snapshot cache metrics.
const snapshotCacheName = "snapshot"

// Service defines the application operations on Pourbaix diagrams.
type Service interface {
	Build(ctx context.Context, req *BuildRequest) (*domain.Diagram, error)
	Snapshot(ctx context.Context, req *BuildRequest) (*ptypes.DiagramSnapshot, error)
	StableAt(ctx context.Context, req *BuildRequest, pH, V float64) (*ptypes.PointResult, error)
	Decompose(ctx context.Context, req *BuildRequest, entry string, pH, V float64) (*ptypes.PointResult, error)
	StabilityMap(ctx context.Context, req *BuildRequest, input *MapInput) (*ptypes.StabilityMap, error)
	PurgeCache(ctx context.Context) (int64, error)
}

// BuildRequest contains the input of one diagram construction.
type BuildRequest struct {
	Entries      []*domain.SingleEntry
	CompDict     map[string]float64
	ConcDict     map[string]float64
	Window       domain.Window
	FilterSolids bool
}

// NewBuildRequest fills a BuildRequest from the diagram configuration. A
// concentration is set for every element of entries; elements missing from
// cfg.Concentrations take cfg.DefaultConcentration.
func NewBuildRequest(cfg config.DiagramConfig, entries []*domain.SingleEntry) *BuildRequest {
	conc := make(map[string]float64)
	for _, e := range entries {
		for _, el := range e.Composition().Without("H", "O").Elements() {
			conc[el] = cfg.ConcentrationFor(el)
		}
	}
	var comp map[string]float64
	if len(cfg.Composition) > 0 {
		comp = make(map[string]float64, len(cfg.Composition))
		for el, f := range cfg.Composition {
			comp[el] = f
		}
	}
	return &BuildRequest{
		Entries:      entries,
		CompDict:     comp,
		ConcDict:     conc,
		Window:       domain.Window{PHMin: cfg.PHMin, PHMax: cfg.PHMax, VMin: cfg.VMin, VMax: cfg.VMax},
		FilterSolids: cfg.FilterSolids,
	}
}

func (r *BuildRequest) options(observer domain.GenerationObserver) []domain.Option {
	return []domain.Option{
		domain.WithCompDict(r.CompDict),
		domain.WithConcDict(r.ConcDict),
		domain.WithWindow(r.Window),
		domain.WithFilterSolids(r.FilterSolids),
		domain.WithObserver(observer),
	}
}

// Options tunes the service.
type Options struct {
	Workers       int
	MapResolution int
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// OptionsFromConfig maps the compute and cache sections onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Workers:       cfg.Compute.Workers,
		MapResolution: cfg.Compute.MapResolution,
		Timeout:       cfg.Compute.Timeout,
		CacheTTL:      cfg.Cache.TTL,
	}
}

// serviceImpl implements Service.
type serviceImpl struct {
	opts    Options
	cache   rediscache.Cache
	metrics *prometheus.AppMetrics
	logger  logging.Logger

	mu       sync.Mutex
	diagrams map[string]*domain.Diagram
	builds   singleflight.Group
}

// NewService creates the diagram service. cache may be nil to disable
// snapshot caching; metrics may be nil to disable metrics.
func NewService(opts Options, cache rediscache.Cache, metrics *prometheus.AppMetrics, logger logging.Logger) Service {
	if opts.Workers < 1 {
		opts.Workers = config.DefaultWorkers()
	}
	if opts.MapResolution < 2 {
		opts.MapResolution = config.DefaultMapResolution
	}
	if metrics == nil {
		metrics = prometheus.NewAppMetrics(prometheus.NewNoopCollector())
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		opts:     opts,
		cache:    cache,
		metrics:  metrics,
		logger:   logger.Named("pourbaix"),
		diagrams: make(map[string]*domain.Diagram),
	}
}

func validateRequest(req *BuildRequest) error {
	if req == nil {
		return errors.InvalidParam("build request is nil")
	}
	if len(req.Entries) == 0 {
		return errors.New(errors.ErrCodeNoEntries, "no entries supplied")
	}
	return nil
}

func canceled(err error) error {
	return errors.Wrap(err, errors.ErrCodeCanceled, "operation canceled")
}

// Build constructs the diagram for req. Diagrams are kept in process by
// request key, and concurrent builds of the same request share one run.
func (s *serviceImpl) Build(ctx context.Context, req *BuildRequest) (*domain.Diagram, error) {
	d, _, err := s.build(ctx, req)
	return d, err
}

func (s *serviceImpl) build(ctx context.Context, req *BuildRequest) (*domain.Diagram, string, error) {
	if err := validateRequest(req); err != nil {
		return nil, "", err
	}
	key, err := RequestKey(req)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	d, ok := s.diagrams[key]
	s.mu.Unlock()
	if ok {
		return d, key, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, key, canceled(err)
	}

	v, err, _ := s.builds.Do(key, func() (interface{}, error) {
		return s.construct(req, key)
	})
	if err != nil {
		return nil, key, err
	}
	d = v.(*domain.Diagram)

	s.mu.Lock()
	s.diagrams[key] = d
	s.mu.Unlock()
	return d, key, nil
}

func (s *serviceImpl) construct(req *BuildRequest, key string) (*domain.Diagram, error) {
	log := s.logger.With(logging.String("key", shortKey(key)))
	log.Info("building diagram",
		logging.Int("entries", len(req.Entries)),
		logging.Bool("filter_solids", req.FilterSolids),
	)

	start := time.Now()
	d, err := domain.NewDiagram(req.Entries, req.options(s.metrics)...)
	took := time.Since(start)
	multi := len(req.CompDict) > 1 || (len(req.CompDict) == 0 && len(elementsOf(req.Entries)) > 1)
	prometheus.RecordBuild(s.metrics, d, multi, took, err)
	if err != nil {
		log.Error("diagram construction failed", logging.Err(err), logging.Duration("took", took))
		return nil, err
	}

	log.Info("diagram built",
		logging.Strings("elements", d.Elements()),
		logging.Bool("multi_element", d.IsMultiElement()),
		logging.Int("processed", len(d.AllEntries())),
		logging.Int("stable", len(d.Domains())),
		logging.Duration("took", took),
	)
	return d, nil
}

func elementsOf(entries []*domain.SingleEntry) []string {
	set := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		for _, el := range e.Composition().Without("H", "O").Elements() {
			if _, ok := set[el]; !ok {
				set[el] = struct{}{}
				out = append(out, el)
			}
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// Snapshot returns the serialisable view of the diagram for req, read from
// the snapshot cache when one is configured. Cache failures are logged and
// the snapshot is computed directly.
func (s *serviceImpl) Snapshot(ctx context.Context, req *BuildRequest) (*ptypes.DiagramSnapshot, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	key, err := RequestKey(req)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return s.computeSnapshot(ctx, req)
	}

	cacheKey := snapshotCacheName + ":" + key
	loaded := false
	var snap ptypes.DiagramSnapshot
	err = s.cache.GetOrSet(ctx, cacheKey, &snap, s.opts.CacheTTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return s.computeSnapshot(ctx, req)
	})
	if err == nil {
		prometheus.RecordCacheAccess(s.metrics, snapshotCacheName, !loaded)
		return &snap, nil
	}
	if loaded || errors.IsCode(err, errors.ErrCodeCanceled) {
		// The loader itself failed.
		return nil, err
	}

	prometheus.RecordError(s.metrics, "cache", err)
	if errors.IsCode(err, errors.ErrCodeSerialization) {
		s.logger.Warn("dropping undecodable snapshot", logging.String("key", shortKey(key)), logging.Err(err))
		if delErr := s.cache.Delete(ctx, cacheKey); delErr != nil {
			s.logger.Warn("failed to delete snapshot", logging.String("key", shortKey(key)), logging.Err(delErr))
		}
	} else {
		s.logger.Warn("snapshot cache unavailable", logging.String("key", shortKey(key)), logging.Err(err))
	}
	prometheus.RecordCacheAccess(s.metrics, snapshotCacheName, false)
	return s.computeSnapshot(ctx, req)
}

func (s *serviceImpl) computeSnapshot(ctx context.Context, req *BuildRequest) (*ptypes.DiagramSnapshot, error) {
	start := time.Now()
	d, key, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(d, key, time.Since(start)), nil
}

// PurgeCache deletes every cached snapshot and returns how many were removed.
func (s *serviceImpl) PurgeCache(ctx context.Context) (int64, error) {
	s.mu.Lock()
	s.diagrams = make(map[string]*domain.Diagram)
	s.mu.Unlock()
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.DeleteByPrefix(ctx, snapshotCacheName+":")
	if err != nil {
		prometheus.RecordError(s.metrics, "cache", err)
		return n, err
	}
	s.logger.Info("snapshot cache purged", logging.Int("deleted", int(n)))
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Point queries
// ─────────────────────────────────────────────────────────────────────────────

// StableAt returns the stable entry and hull energy at (pH, V).
func (s *serviceImpl) StableAt(ctx context.Context, req *BuildRequest, pH, V float64) (*ptypes.PointResult, error) {
	d, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	prometheus.RecordQuery(s.metrics, "stable")
	res := &ptypes.PointResult{PH: pH, V: V, HullEnergy: d.HullEnergy(pH, V)}
	if e := d.FindStableEntry(pH, V); e != nil {
		res.Entry = e.Name()
	}
	return res, nil
}

// Decompose returns the decomposition energy of the entry named or
// identified by entry at (pH, V).
func (s *serviceImpl) Decompose(ctx context.Context, req *BuildRequest, entry string, pH, V float64) (*ptypes.PointResult, error) {
	d, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	prometheus.RecordQuery(s.metrics, "decompose")
	e, err := d.FindEntry(entry)
	if err != nil {
		prometheus.RecordError(s.metrics, "query", err)
		return nil, err
	}
	energy, err := d.DecompositionEnergy(e, pH, V)
	if err != nil {
		prometheus.RecordError(s.metrics, "query", err)
		return nil, err
	}
	return &ptypes.PointResult{
		PH:            pH,
		V:             V,
		Entry:         e.Name(),
		HullEnergy:    d.HullEnergy(pH, V),
		Decomposition: &energy,
	}, nil
}

//Personal.AI order the ending
