package naming

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemNomen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/nomenclature"
	"github.com/turtacn/ChemNomen/internal/testutil"
	"github.com/turtacn/ChemNomen/pkg/errors"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
)

func ethanol() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			{ID: 0, Symbol: "C", Hydrogens: 3},
			{ID: 1, Symbol: "C", Hydrogens: 2},
			{ID: 2, Symbol: "O", Hydrogens: 1},
		},
		Bonds: []mtypes.Bond{
			{Atom1: 0, Atom2: 1, Order: mtypes.BondSingle},
			{Atom1: 1, Atom2: 2, Order: mtypes.BondSingle},
		},
	}
}

type fakeStore struct {
	saved   []*repositories.NameRecord
	saveErr error
	found   *repositories.NameRecord
	findErr error
	listed  []*repositories.NameRecord
	total   int64
	deleted []string
	delErr  error
}

func (f *fakeStore) Save(ctx context.Context, rec *repositories.NameRecord) error {
	f.saved = append(f.saved, rec)
	return f.saveErr
}

func (f *fakeStore) FindByStructureHash(ctx context.Context, hash string) (*repositories.NameRecord, error) {
	return f.found, f.findErr
}

func (f *fakeStore) List(ctx context.Context, crit repositories.ListCriteria) ([]*repositories.NameRecord, error) {
	return f.listed, nil
}

func (f *fakeStore) Count(ctx context.Context, crit repositories.ListCriteria) (int64, error) {
	return f.total, nil
}

func (f *fakeStore) Delete(ctx context.Context, hash string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, hash)
	return nil
}

type fakePublisher struct {
	published []*kafka.Message
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *kafka.Message) error {
	f.published = append(f.published, msg)
	return f.err
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		CacheTTL:       time.Hour,
		MaxBatchSize:   10,
		PersistResults: true,
	}
}

func newService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	engine := nomenclature.NewEngine(logging.NewNopLogger())
	return NewService(engine, testEngineConfig(), logging.NewNopLogger(), opts...)
}

func newServiceCache(t *testing.T) redis.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return redis.NewRedisCache(client, logging.NewNopLogger())
}

func TestGenerateName(t *testing.T) {
	svc := newService(t)

	result, err := svc.GenerateName(context.Background(), ethanol(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "ethanol", result.Name)
	assert.NotEmpty(t, result.StructureHash)
	assert.NotEmpty(t, result.FiredRuleIDs)
	assert.Greater(t, result.Confidence, 0.0)
	// The trace is omitted unless requested.
	assert.Nil(t, result.Trace)
}

func TestGenerateName_IncludeTrace(t *testing.T) {
	svc := newService(t)

	result, err := svc.GenerateName(context.Background(), ethanol(), Options{IncludeTrace: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Trace)
}

func TestGenerateName_InvalidInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GenerateName(ctx, nil, Options{})
	assert.Error(t, err)

	// Dangling bond reference.
	bad := ethanol()
	bad.Bonds[0].Atom2 = 99
	_, err = svc.GenerateName(ctx, bad, Options{})
	assert.Error(t, err)
}

func TestGenerateName_PersistsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := newService(t, WithStore(store), WithPublisher(pub))

	result, err := svc.GenerateName(context.Background(), ethanol(), Options{})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, result.StructureHash, store.saved[0].StructureHash)
	assert.Equal(t, result.Name, store.saved[0].Name)

	require.Len(t, pub.published, 1)
	assert.Equal(t, kafka.TopicNameComputed, pub.published[0].Topic)
	assert.Equal(t, []byte(result.StructureHash), pub.published[0].Key)
}

func TestGenerateName_PersistenceIsBestEffort(t *testing.T) {
	store := &fakeStore{saveErr: errors.New(errors.ErrCodeDatabaseError, "db down")}
	pub := &fakePublisher{err: errors.New(errors.ErrCodeInternal, "broker down")}
	svc := newService(t, WithStore(store), WithPublisher(pub))

	result, err := svc.GenerateName(context.Background(), ethanol(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "ethanol", result.Name)
}

func TestGenerateName_CacheAvoidsRecompute(t *testing.T) {
	store := &fakeStore{}
	svc := newService(t, WithCache(newServiceCache(t)), WithStore(store))
	ctx := context.Background()

	first, err := svc.GenerateName(ctx, ethanol(), Options{})
	require.NoError(t, err)
	second, err := svc.GenerateName(ctx, ethanol(), Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.StructureHash, second.StructureHash)
	// The store only sees the fresh computation, not the cache hit.
	assert.Len(t, store.saved, 1)
}

func TestGenerateName_CachedResultKeepsTraceOption(t *testing.T) {
	svc := newService(t, WithCache(newServiceCache(t)))
	ctx := context.Background()

	_, err := svc.GenerateName(ctx, ethanol(), Options{})
	require.NoError(t, err)

	// A later request with trace enabled is served from cache and still
	// carries the trace.
	withTrace, err := svc.GenerateName(ctx, ethanol(), Options{IncludeTrace: true})
	require.NoError(t, err)
	assert.NotEmpty(t, withTrace.Trace)
}

func TestGenerateNames_Batch(t *testing.T) {
	svc := newService(t)

	bad := ethanol()
	bad.Bonds[0].Atom2 = 99

	batch, err := svc.GenerateNames(context.Background(),
		[]*mtypes.Molecule{ethanol(), bad, ethanol()}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Items, 3)
	assert.Equal(t, "ethanol", batch.Items[0].Result.Name)
	assert.NotEmpty(t, batch.Items[1].Error)
	assert.Nil(t, batch.Items[1].Result)
	assert.Equal(t, 2, batch.Items[2].Index)
}

func TestGenerateNames_BatchLimits(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GenerateNames(ctx, nil, Options{})
	assert.Error(t, err)

	over := make([]*mtypes.Molecule, 11)
	for i := range over {
		over[i] = ethanol()
	}
	_, err = svc.GenerateNames(ctx, over, Options{})
	assert.Error(t, err)
}

func TestLookupByStructureHash(t *testing.T) {
	ctx := context.Background()

	svc := newService(t)
	_, err := svc.LookupByStructureHash(ctx, "abc")
	assert.Error(t, err)

	rec := &repositories.NameRecord{StructureHash: "abc", Name: "ethanol"}
	svc = newService(t, WithStore(&fakeStore{found: rec}))

	got, err := svc.LookupByStructureHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = svc.LookupByStructureHash(ctx, "")
	assert.Error(t, err)
}

func TestListRecords(t *testing.T) {
	ctx := context.Background()

	svc := newService(t)
	_, _, err := svc.ListRecords(ctx, repositories.ListCriteria{})
	assert.Error(t, err)

	store := &fakeStore{
		listed: []*repositories.NameRecord{
			{StructureHash: "h1", Name: "ethanol"},
			{StructureHash: "h2", Name: "propan-2-ol"},
		},
		total: 7,
	}
	svc = newService(t, WithStore(store))

	records, total, err := svc.ListRecords(ctx, repositories.ListCriteria{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int64(7), total)
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()

	svc := newService(t)
	assert.Error(t, svc.DeleteRecord(ctx, "abc"))
	store := &fakeStore{}
	svc = newService(t, WithStore(store))

	assert.Error(t, svc.DeleteRecord(ctx, ""))
	require.NoError(t, svc.DeleteRecord(ctx, "abc"))
	assert.Equal(t, []string{"abc"}, store.deleted)
}

func TestDeleteRecordInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := newServiceCache(t)
	store := &fakeStore{}
	svc := newService(t, WithCache(cache), WithStore(store))

	mol := ethanol()
	first, err := svc.GenerateName(ctx, mol, Options{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecord(ctx, mol.StructureHash()))

	// The next request recomputes and persists again.
	second, err := svc.GenerateName(ctx, mol, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Len(t, store.saved, 2)
}

// brokenCache fails every operation, standing in for an unreachable Redis.
type brokenCache struct{ err error }

func (b *brokenCache) Get(ctx context.Context, key string, dest interface{}) error { return b.err }
func (b *brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return b.err
}
func (b *brokenCache) Delete(ctx context.Context, keys ...string) error     { return b.err }
func (b *brokenCache) Exists(ctx context.Context, key string) (bool, error) { return false, b.err }
func (b *brokenCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	return 0, b.err
}
func (b *brokenCache) TTL(ctx context.Context, key string) (time.Duration, error) { return 0, b.err }
func (b *brokenCache) Ping(ctx context.Context) error                             { return b.err }
func (b *brokenCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	return b.err
}

func TestDeleteRecordWarnsOnCacheFailure(t *testing.T) {
	ctx := context.Background()
	logger := testutil.NewMockLogger()
	store := &fakeStore{}
	engine := nomenclature.NewEngine(logging.NewNopLogger())
	svc := NewService(engine, testEngineConfig(), logger,
		WithStore(store),
		WithCache(&brokenCache{err: errors.New(errors.ErrCodeCacheError, "redis down")}),
	)

	// The row deletion succeeds; the failed cache drop is logged, not fatal.
	require.NoError(t, svc.DeleteRecord(ctx, "abc"))
	assert.Equal(t, []string{"abc"}, store.deleted)
	assert.True(t, logger.HasMessage("warn", "cache invalidation failed after delete"))
}
