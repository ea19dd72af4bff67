package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/common"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

func TestNameRecordRepository_RoundTrip(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	cfg := startPostgres(t)
	pool, err := postgres.Connect(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repositories.NewNameRecordRepository(pool, logging.NewNopLogger())

	rec := &repositories.NameRecord{
		ID:            common.NewID(),
		StructureHash: "hash-ethanol",
		Name:          "ethanol",
		Method:        naming.MethodSubstitutive,
		Confidence:    1.0,
		FiredRuleIDs:  []string{"parent.longest-chain", "suffix.principal-group"},
		Conflicts: []naming.Conflict{
			{RuleID: "numbering.lowest-locants", Description: "tie broken alphabetically"},
		},
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.FindByStructureHash(ctx, "hash-ethanol")
	require.NoError(t, err)
	assert.Equal(t, "ethanol", got.Name)
	assert.Equal(t, naming.MethodSubstitutive, got.Method)
	assert.Equal(t, rec.FiredRuleIDs, got.FiredRuleIDs)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, "numbering.lowest-locants", got.Conflicts[0].RuleID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestNameRecordRepository_UpsertKeepsOneRow(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	cfg := startPostgres(t)
	pool, err := postgres.Connect(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repositories.NewNameRecordRepository(pool, logging.NewNopLogger())

	first := &repositories.NameRecord{
		ID:            common.NewID(),
		StructureHash: "hash-x",
		Name:          "propan-1-ol",
		Method:        naming.MethodSubstitutive,
		Confidence:    0.8,
	}
	require.NoError(t, repo.Save(ctx, first))

	second := &repositories.NameRecord{
		ID:            common.NewID(),
		StructureHash: "hash-x",
		Name:          "propan-2-ol",
		Method:        naming.MethodSubstitutive,
		Confidence:    0.95,
	}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.FindByStructureHash(ctx, "hash-x")
	require.NoError(t, err)
	assert.Equal(t, "propan-2-ol", got.Name)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)

	count, err := repo.Count(ctx, repositories.ListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNameRecordRepository_ListAndDelete(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	cfg := startPostgres(t)
	pool, err := postgres.Connect(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repositories.NewNameRecordRepository(pool, logging.NewNopLogger())

	seed := []struct {
		hash   string
		name   string
		method naming.Method
	}{
		{"hash-1", "ethanol", naming.MethodSubstitutive},
		{"hash-2", "methyl acetate", naming.MethodFunctionalClass},
		{"hash-3", "butan-2-one", naming.MethodSubstitutive},
	}
	for _, s := range seed {
		require.NoError(t, repo.Save(ctx, &repositories.NameRecord{
			ID:            common.NewID(),
			StructureHash: s.hash,
			Name:          s.name,
			Method:        s.method,
			Confidence:    1.0,
		}))
	}

	all, err := repo.List(ctx, repositories.ListCriteria{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	substitutive, err := repo.List(ctx, repositories.ListCriteria{
		Method: naming.MethodSubstitutive, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, substitutive, 2)

	count, err := repo.Count(ctx, repositories.ListCriteria{Method: naming.MethodFunctionalClass})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, "hash-2"))
	_, err = repo.FindByStructureHash(ctx, "hash-2")
	assert.True(t, apperrors.IsNotFound(err))

	// Deleting a missing row reports not found.
	err = repo.Delete(ctx, "hash-2")
	assert.True(t, apperrors.IsNotFound(err))
}
