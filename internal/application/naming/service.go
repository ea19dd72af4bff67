// Package naming provides the application-level service for name
// computation.  It sits between the HTTP/CLI surfaces and the nomenclature
// engine, adding caching, persistence, eventing, and metrics around the
// pure pipeline.
package naming

import (
	"context"
	"time"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemNomen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemNomen/internal/nomenclature"
	"github.com/turtacn/ChemNomen/pkg/errors"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// cacheName labels cache metrics for the computed-name cache.
const cacheName = "names"

// Service is the application surface for name computation.
type Service interface {
	// GenerateName computes (or retrieves) the name for one molecule.
	GenerateName(ctx context.Context, mol *mtypes.Molecule, opts Options) (*naming.Result, error)

	// GenerateNames computes names for a batch of molecules.  Per-item
	// failures do not abort the batch.
	GenerateNames(ctx context.Context, mols []*mtypes.Molecule, opts Options) (*BatchResult, error)

	// LookupByStructureHash returns the persisted record for a structure
	// hash without recomputing.
	LookupByStructureHash(ctx context.Context, hash string) (*repositories.NameRecord, error)

	// ListRecords pages through persisted records, newest first, and
	// returns the total count matching the criteria.
	ListRecords(ctx context.Context, crit repositories.ListCriteria) ([]*repositories.NameRecord, int64, error)

	// DeleteRecord removes the record for a structure hash and drops its
	// cache entry.
	DeleteRecord(ctx context.Context, hash string) error
}

// Options controls one request.
type Options struct {
	// IncludeTrace keeps the full rule-execution trace on the result.
	IncludeTrace bool
}

// BatchItem is the outcome for one molecule of a batch request.
type BatchItem struct {
	Index  int            `json:"index"`
	Result *naming.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// BatchResult aggregates a batch request.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// RecordStore persists computed names.
type RecordStore interface {
	Save(ctx context.Context, rec *repositories.NameRecord) error
	FindByStructureHash(ctx context.Context, hash string) (*repositories.NameRecord, error)
	List(ctx context.Context, crit repositories.ListCriteria) ([]*repositories.NameRecord, error)
	Count(ctx context.Context, crit repositories.ListCriteria) (int64, error)
	Delete(ctx context.Context, hash string) error
}

// EventPublisher publishes name-computed events.
type EventPublisher interface {
	Publish(ctx context.Context, msg *kafka.Message) error
}

type service struct {
	engine    *nomenclature.Engine
	cache     redis.Cache
	store     RecordStore
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	cfg       config.EngineConfig
}

// ServiceOption customises service construction.  The engine and logger are
// mandatory; cache, store, publisher, and metrics are optional and the
// service degrades gracefully without them.
type ServiceOption func(*service)

// WithCache enables the computed-name cache.
func WithCache(c redis.Cache) ServiceOption {
	return func(s *service) { s.cache = c }
}

// WithStore enables persistence of computed names.
func WithStore(store RecordStore) ServiceOption {
	return func(s *service) { s.store = store }
}

// WithPublisher enables name-computed events.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *service) { s.publisher = p }
}

// WithMetrics enables metric recording.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *service) { s.metrics = m }
}

// NewService constructs the naming service.
func NewService(engine *nomenclature.Engine, cfg config.EngineConfig, logger logging.Logger, opts ...ServiceOption) Service {
	s := &service{
		engine: engine,
		logger: logger.Named("naming-service"),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GenerateName(ctx context.Context, mol *mtypes.Molecule, opts Options) (*naming.Result, error) {
	if mol == nil {
		return nil, errors.New(errors.ErrCodeValidation, "molecule required")
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.nameWithCache(ctx, mol)
	if err != nil {
		s.recordNaming("", "error", start, 0)
		return nil, err
	}
	s.recordNaming(string(result.Method), "ok", start, result.Confidence)

	if !opts.IncludeTrace {
		clone := *result
		clone.Trace = nil
		return &clone, nil
	}
	return result, nil
}

func (s *service) GenerateNames(ctx context.Context, mols []*mtypes.Molecule, opts Options) (*BatchResult, error) {
	if len(mols) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one molecule required")
	}
	maxBatch := s.cfg.MaxBatchSize
	if maxBatch > 0 && len(mols) > maxBatch {
		return nil, errors.New(errors.ErrCodeValidation,
			"batch exceeds the configured maximum size")
	}
	if s.metrics != nil {
		s.metrics.NamingBatchSize.WithLabelValues().Observe(float64(len(mols)))
	}

	batch := &BatchResult{Items: make([]BatchItem, 0, len(mols))}
	for i, mol := range mols {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "batch canceled")
		}
		item := BatchItem{Index: i}
		result, err := s.GenerateName(ctx, mol, opts)
		if err != nil {
			item.Error = err.Error()
			batch.Failed++
		} else {
			item.Result = result
			batch.Succeeded++
		}
		batch.Items = append(batch.Items, item)
	}
	return batch, nil
}

func (s *service) LookupByStructureHash(ctx context.Context, hash string) (*repositories.NameRecord, error) {
	if hash == "" {
		return nil, errors.New(errors.ErrCodeValidation, "structure hash required")
	}
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "name registry is not configured")
	}
	return s.store.FindByStructureHash(ctx, hash)
}

func (s *service) ListRecords(ctx context.Context, crit repositories.ListCriteria) ([]*repositories.NameRecord, int64, error) {
	if s.store == nil {
		return nil, 0, errors.New(errors.ErrCodeServiceUnavailable, "name registry is not configured")
	}
	records, err := s.store.List(ctx, crit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, crit)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *service) DeleteRecord(ctx context.Context, hash string) error {
	if hash == "" {
		return errors.New(errors.ErrCodeValidation, "structure hash required")
	}
	if s.store == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "name registry is not configured")
	}
	if err := s.store.Delete(ctx, hash); err != nil {
		return err
	}
	// A stale cache entry would resurrect the deleted name on the next
	// lookup, so drop it alongside the row.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, hash); err != nil {
			s.logger.Warn("cache invalidation failed after delete",
				logging.String("structure_hash", hash), logging.Err(err))
		}
	}
	return nil
}

// nameWithCache runs the engine behind the cache when one is configured.
// The cached value carries the full trace; trimming happens in the caller
// so hits and misses serve identical shapes.
func (s *service) nameWithCache(ctx context.Context, mol *mtypes.Molecule) (*naming.Result, error) {
	if s.cache == nil {
		return s.computeAndRecord(ctx, mol)
	}

	hash := mol.StructureHash()
	var cached naming.Result
	hit := true
	err := s.cache.GetOrSet(ctx, hash, &cached, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
		hit = false
		return s.computeAndRecord(ctx, mol)
	})
	if err != nil {
		if err == redis.ErrCacheMiss {
			// A cached null marker cannot occur for naming results; treat
			// it as a fresh computation.
			return s.computeAndRecord(ctx, mol)
		}
		return nil, err
	}
	if s.metrics != nil {
		prometheus.RecordCacheAccess(s.metrics, cacheName, hit)
	}
	return &cached, nil
}

// computeAndRecord runs the engine once and fans the fresh result out to
// the store and the event stream.  Both are best effort: persistence or
// publish failures are logged, never surfaced to the caller.
func (s *service) computeAndRecord(ctx context.Context, mol *mtypes.Molecule) (*naming.Result, error) {
	result, err := s.engine.Name(ctx, mol)
	if err != nil {
		return nil, err
	}

	for _, conflict := range result.Conflicts {
		if s.metrics != nil {
			prometheus.RecordConflict(s.metrics, string(conflict.Type), string(conflict.Phase))
		}
	}

	if s.store != nil && s.cfg.PersistResults {
		saveStart := time.Now()
		saveErr := s.store.Save(ctx, repositories.RecordFromResult(result))
		if s.metrics != nil {
			prometheus.RecordDBQuery(s.metrics, "save_name_record", time.Since(saveStart), saveErr)
		}
		if saveErr != nil {
			s.logger.Warn("Failed to persist name record",
				logging.String("structure_hash", result.StructureHash),
				logging.Err(saveErr),
			)
		}
	}

	if s.publisher != nil {
		s.publishComputed(ctx, result)
	}
	return result, nil
}

func (s *service) publishComputed(ctx context.Context, result *naming.Result) {
	msg, err := kafka.NewNameComputedMessage(result)
	if err != nil {
		s.logger.Warn("Failed to build name-computed event", logging.Err(err))
		return
	}
	err = s.publisher.Publish(ctx, msg)
	if s.metrics != nil {
		prometheus.RecordEventPublished(s.metrics, kafka.TopicNameComputed, err)
	}
	if err != nil {
		s.logger.Warn("Failed to publish name-computed event",
			logging.String("structure_hash", result.StructureHash),
			logging.Err(err),
		)
	}
}

func (s *service) recordNaming(method, status string, start time.Time, confidence float64) {
	if s.metrics == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	prometheus.RecordNaming(s.metrics, method, status, time.Since(start), confidence)
}
