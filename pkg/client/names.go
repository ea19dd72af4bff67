package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/ChemNomen/pkg/types/common"
	"github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// NamesClient accesses the name computation and registry endpoints.
type NamesClient struct {
	c *Client
}

// GenerateRequest is the body of POST /api/v1/names.
type GenerateRequest struct {
	Molecule     *molecule.Molecule `json:"molecule"`
	IncludeTrace bool               `json:"include_trace"`
}

// BatchGenerateRequest is the body of POST /api/v1/names/batch.
type BatchGenerateRequest struct {
	Molecules    []*molecule.Molecule `json:"molecules"`
	IncludeTrace bool                 `json:"include_trace"`
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

// NameRecord is a persisted name registry entry.
type NameRecord struct {
	ID            string              `json:"id"`
	StructureHash string              `json:"structure_hash"`
	Name          string              `json:"name"`
	Method        naming.Method       `json:"method"`
	Confidence    float64             `json:"confidence"`
	FiredRuleIDs  []string            `json:"fired_rule_ids"`
	Conflicts     []naming.Conflict   `json:"conflicts,omitempty"`
	Trace         []naming.TraceEntry `json:"trace,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListOptions filters and pages registry listings.
type ListOptions struct {
	Method   string
	Page     int
	PageSize int
}

// Generate computes the name for one molecule.
func (nc *NamesClient) Generate(ctx context.Context, mol *molecule.Molecule, includeTrace bool) (*naming.Result, error) {
	if mol == nil {
		return nil, fmt.Errorf("chemnomen: molecule is required")
	}
	var result naming.Result
	_, err := nc.c.doInto(ctx, http.MethodPost, "/api/v1/names", GenerateRequest{
		Molecule:     mol,
		IncludeTrace: includeTrace,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateBatch computes names for several molecules in one round trip.
func (nc *NamesClient) GenerateBatch(ctx context.Context, mols []*molecule.Molecule, includeTrace bool) (*BatchResult, error) {
	if len(mols) == 0 {
		return nil, fmt.Errorf("chemnomen: at least one molecule is required")
	}
	var result BatchResult
	_, err := nc.c.doInto(ctx, http.MethodPost, "/api/v1/names/batch", BatchGenerateRequest{
		Molecules:    mols,
		IncludeTrace: includeTrace,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches the persisted record for a structure hash.  The stored
// decision trace is included when withTrace is set.
func (nc *NamesClient) Get(ctx context.Context, structureHash string, withTrace bool) (*NameRecord, error) {
	if structureHash == "" {
		return nil, fmt.Errorf("chemnomen: structure hash is required")
	}
	path := "/api/v1/names/" + url.PathEscape(structureHash)
	if withTrace {
		path += "?trace=true"
	}
	var record NameRecord
	if _, err := nc.c.doInto(ctx, http.MethodGet, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// List pages through the registry, newest first.
func (nc *NamesClient) List(ctx context.Context, opts ListOptions) ([]NameRecord, *common.Pagination, error) {
	q := url.Values{}
	if opts.Method != "" {
		q.Set("method", opts.Method)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	path := "/api/v1/names"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var records []NameRecord
	env, err := nc.c.doInto(ctx, http.MethodGet, path, nil, &records)
	if err != nil {
		return nil, nil, err
	}
	return records, env.Pagination, nil
}

// Delete removes the record for a structure hash.
func (nc *NamesClient) Delete(ctx context.Context, structureHash string) error {
	if structureHash == "" {
		return fmt.Errorf("chemnomen: structure hash is required")
	}
	_, err := nc.c.do(ctx, http.MethodDelete, "/api/v1/names/"+url.PathEscape(structureHash), nil)
	return err
}
