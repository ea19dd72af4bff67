package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appnaming "github.com/turtacn/ChemNomen/internal/application/naming"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/common"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// NamingHandler serves the name computation and registry lookup endpoints.
type NamingHandler struct {
	svc    appnaming.Service
	logger logging.Logger
}

// NewNamingHandler creates a NamingHandler backed by the given service.
func NewNamingHandler(svc appnaming.Service, logger logging.Logger) *NamingHandler {
	return &NamingHandler{
		svc:    svc,
		logger: logger.Named("naming-handler"),
	}
}

// RegisterRoutes mounts the naming endpoints on the given route group.
func (h *NamingHandler) RegisterRoutes(api *gin.RouterGroup) {
	names := api.Group("/names")
	names.POST("", h.Generate)
	names.POST("/batch", h.GenerateBatch)
	names.GET("", h.List)
	names.GET("/:hash", h.Lookup)
	names.DELETE("/:hash", h.Delete)
}

// NameRequest is the body of POST /api/v1/names.
type NameRequest struct {
	Molecule     *mtypes.Molecule `json:"molecule" binding:"required"`
	IncludeTrace bool             `json:"include_trace"`
}

// BatchNameRequest is the body of POST /api/v1/names/batch.
type BatchNameRequest struct {
	Molecules    []*mtypes.Molecule `json:"molecules" binding:"required"`
	IncludeTrace bool               `json:"include_trace"`
}

// NameRecordResponse is the wire form of a persisted name record.
type NameRecordResponse struct {
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

// Generate handles POST /api/v1/names.  It computes the IUPAC name for the
// submitted molecular graph.
func (h *NamingHandler) Generate(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, appErrors.Wrap(err, appErrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.GenerateName(c.Request.Context(), req.Molecule, appnaming.Options{
		IncludeTrace: req.IncludeTrace,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GenerateBatch handles POST /api/v1/names/batch.  Molecules are named
// independently; per-item failures are reported in place without aborting
// the batch.
func (h *NamingHandler) GenerateBatch(c *gin.Context) {
	var req BatchNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, appErrors.Wrap(err, appErrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.GenerateNames(c.Request.Context(), req.Molecules, appnaming.Options{
		IncludeTrace: req.IncludeTrace,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Lookup handles GET /api/v1/names/:hash.  It returns the persisted record
// for a structure hash; the stored decision trace is included only when
// trace=true is passed.
func (h *NamingHandler) Lookup(c *gin.Context) {
	hash := c.Param("hash")

	rec, err := h.svc.LookupByStructureHash(c.Request.Context(), hash)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := NameRecordResponse{
		ID:            string(rec.ID),
		StructureHash: rec.StructureHash,
		Name:          rec.Name,
		Method:        rec.Method,
		Confidence:    rec.Confidence,
		FiredRuleIDs:  rec.FiredRuleIDs,
		Conflicts:     rec.Conflicts,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	if boolQuery(c, "trace", false) {
		resp.Trace = rec.Trace
	}
	respond(c, http.StatusOK, resp)
}

// List handles GET /api/v1/names.  Records are returned newest first with
// optional filtering on the nomenclature method.
func (h *NamingHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	crit := repositories.ListCriteria{
		Method:   naming.Method(c.Query("method")),
		Page:     page,
		PageSize: pageSize,
	}

	records, total, err := h.svc.ListRecords(c.Request.Context(), crit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]NameRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, NameRecordResponse{
			ID:            string(rec.ID),
			StructureHash: rec.StructureHash,
			Name:          rec.Name,
			Method:        rec.Method,
			Confidence:    rec.Confidence,
			FiredRuleIDs:  rec.FiredRuleIDs,
			Conflicts:     rec.Conflicts,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		})
	}
	respondPaged(c, http.StatusOK, items, common.Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// Delete handles DELETE /api/v1/names/:hash.
func (h *NamingHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteRecord(c.Request.Context(), c.Param("hash")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
