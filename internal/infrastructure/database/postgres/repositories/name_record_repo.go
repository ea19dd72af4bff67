// Package repositories contains the PostgreSQL persistence layer for the
// name registry.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/common"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// ─────────────────────────────────────────────────────────────────────────────
// NameRecord entity
// ─────────────────────────────────────────────────────────────────────────────

// NameRecord is the persisted form of one computed name.  Records are keyed
// by the structure hash of the input molecule; recomputing the name for the
// same structure updates the existing row rather than inserting a new one.
type NameRecord struct {
	ID            common.ID
	StructureHash string
	Name          string
	Method        naming.Method
	Confidence    float64
	FiredRuleIDs  []string
	Conflicts     []naming.Conflict
	Trace         []naming.TraceEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecordFromResult builds a NameRecord from an engine result.  Timestamp
// fields are assigned by Save.
func RecordFromResult(res *naming.Result) *NameRecord {
	return &NameRecord{
		ID:            common.NewID(),
		StructureHash: res.StructureHash,
		Name:          res.Name,
		Method:        res.Method,
		Confidence:    res.Confidence,
		FiredRuleIDs:  res.FiredRuleIDs,
		Conflicts:     res.Conflicts,
		Trace:         res.Trace,
	}
}

// ListCriteria carries paging parameters for record listing.
type ListCriteria struct {
	Method   naming.Method
	Page     int
	PageSize int
}

// ─────────────────────────────────────────────────────────────────────────────
// NameRecordRepository
// ─────────────────────────────────────────────────────────────────────────────

// NameRecordRepository is the PostgreSQL implementation of the registry's
// persistence interface.
type NameRecordRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewNameRecordRepository constructs a ready-to-use NameRecordRepository.
func NewNameRecordRepository(pool *pgxpool.Pool, logger logging.Logger) *NameRecordRepository {
	return &NameRecordRepository{pool: pool, logger: logger}
}

// Save upserts a record on its structure hash.  Conflicts and trace entries
// are serialised as JSONB columns.
func (r *NameRecordRepository) Save(ctx context.Context, rec *NameRecord) error {
	r.logger.Debug("NameRecordRepository.Save",
		logging.String("structure_hash", rec.StructureHash),
		logging.String("name", rec.Name),
	)

	conflictsJSON, err := json.Marshal(rec.Conflicts)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeNameRecordSaveFailed, "failed to marshal conflicts")
	}
	traceJSON, err := json.Marshal(rec.Trace)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeNameRecordSaveFailed, "failed to marshal trace")
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err = r.pool.Exec(ctx, `
		INSERT INTO name_records (
			id, structure_hash, name, method, confidence,
			fired_rule_ids, conflicts, trace, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10
		)
		ON CONFLICT (structure_hash) DO UPDATE SET
			name = EXCLUDED.name,
			method = EXCLUDED.method,
			confidence = EXCLUDED.confidence,
			fired_rule_ids = EXCLUDED.fired_rule_ids,
			conflicts = EXCLUDED.conflicts,
			trace = EXCLUDED.trace,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.StructureHash, rec.Name, rec.Method, rec.Confidence,
		rec.FiredRuleIDs, conflictsJSON, traceJSON, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("NameRecordRepository.Save", logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeNameRecordSaveFailed, "failed to upsert name record")
	}
	return nil
}

// FindByStructureHash returns the record for the given structure hash, or a
// not-found error when no name has been computed for it.
func (r *NameRecordRepository) FindByStructureHash(ctx context.Context, hash string) (*NameRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, structure_hash, name, method, confidence,
		       fired_rule_ids, conflicts, trace, created_at, updated_at
		FROM name_records
		WHERE structure_hash = $1`, hash)

	rec, err := scanRecord(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.New(appErrors.ErrCodeNameRecordNotFound,
				"no name record for structure hash "+hash)
		}
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to query name record")
	}
	return rec, nil
}

// List returns records matching the criteria, most recently updated first.
// A zero PageSize defaults to 20.
func (r *NameRecordRepository) List(ctx context.Context, c ListCriteria) ([]*NameRecord, error) {
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.Page <= 0 {
		c.Page = 1
	}
	offset := (c.Page - 1) * c.PageSize

	query := `
		SELECT id, structure_hash, name, method, confidence,
		       fired_rule_ids, conflicts, trace, created_at, updated_at
		FROM name_records`
	args := []interface{}{}
	if c.Method != "" {
		query += ` WHERE method = $1`
		args = append(args, c.Method)
	}
	query += ` ORDER BY updated_at DESC LIMIT ` + placeholder(len(args)+1) +
		` OFFSET ` + placeholder(len(args)+2)
	args = append(args, c.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to list name records")
	}
	defer rows.Close()

	var records []*NameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to scan name record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to iterate name records")
	}
	return records, nil
}

// Count returns the total number of records matching the criteria.
func (r *NameRecordRepository) Count(ctx context.Context, c ListCriteria) (int64, error) {
	query := `SELECT COUNT(*) FROM name_records`
	args := []interface{}{}
	if c.Method != "" {
		query += ` WHERE method = $1`
		args = append(args, c.Method)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to count name records")
	}
	return count, nil
}

// Delete removes a record by structure hash.  Deleting a missing record is a
// not-found error so callers can distinguish it from a no-op.
func (r *NameRecordRepository) Delete(ctx context.Context, hash string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM name_records WHERE structure_hash = $1`, hash)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "failed to delete name record")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.ErrCodeNameRecordNotFound,
			"no name record for structure hash "+hash)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row scanning
// ─────────────────────────────────────────────────────────────────────────────

// rowScanner abstracts pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*NameRecord, error) {
	var (
		rec           NameRecord
		conflictsJSON []byte
		traceJSON     []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.StructureHash, &rec.Name, &rec.Method, &rec.Confidence,
		&rec.FiredRuleIDs, &conflictsJSON, &traceJSON, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(conflictsJSON) > 0 {
		if err := json.Unmarshal(conflictsJSON, &rec.Conflicts); err != nil {
			return nil, err
		}
	}
	if len(traceJSON) > 0 {
		if err := json.Unmarshal(traceJSON, &rec.Trace); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// placeholder renders the nth positional parameter.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
