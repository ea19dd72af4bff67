package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"not found", errors.CodeNameRecordMissing, "no name record for structure hash 3f1c"},
		{"invalid molecule", errors.CodeMoleculeInvalid, "bond references unknown atom 7"},
		{"internal", errors.CodeInternal, "unexpected failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := errors.New(tt.code, tt.message)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.message, ae.Message)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	ae := errors.New(errors.CodeNameRecordMissing, "name record not found")
	s := ae.Error()
	assert.Contains(t, s, "REG_001")
	assert.Contains(t, s, "name record not found")

	withDetail := ae.WithDetail("hash=3f1c")
	assert.Contains(t, withDetail.Error(), "hash=3f1c")
	// The original is not mutated.
	assert.NotContains(t, ae.Error(), "hash=3f1c")
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	ae := errors.Wrap(inner, errors.CodeDBConnectionError, "failed to query name record")

	require.NotNil(t, ae)
	assert.Equal(t, errors.CodeDBConnectionError, ae.Code)
	assert.ErrorIs(t, ae, inner)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	inner := errors.New(errors.CodeNameRecordMissing, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	assert.Equal(t, errors.CodeNameRecordMissing, outer.Code,
		"wrapping with CodeUnknown should keep the inner classification")
}

func TestWrap_ExplicitCodeOverrides(t *testing.T) {
	inner := errors.New(errors.CodeNameRecordMissing, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "failed to load record")

	assert.Equal(t, errors.CodeInternal, outer.Code)
	// The inner code is still discoverable through the chain.
	assert.True(t, errors.IsCode(outer, errors.CodeNameRecordMissing))
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	ae := errors.Internal("wrapper").WithCause(cause)

	assert.ErrorIs(t, ae, cause)
	assert.Nil(t, (*errors.AppError)(nil).WithCause(cause))
	assert.Nil(t, (*errors.AppError)(nil).WithDetail("x"))
}

func TestIsCode(t *testing.T) {
	ae := errors.New(errors.CodeNameRecordMissing, "not found")
	assert.True(t, errors.IsCode(ae, errors.CodeNameRecordMissing))
	assert.False(t, errors.IsCode(ae, errors.CodeInternal))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))

	wrapped := fmt.Errorf("outer: %w", ae)
	assert.True(t, errors.IsCode(wrapped, errors.CodeNameRecordMissing))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("gone")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeMoleculeNotFound, "gone")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeNameRecordMissing, "gone")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(nil))
	assert.False(t, errors.IsNotFound(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	ae := errors.New(errors.CodeMoleculeInvalid, "bad graph")
	assert.Equal(t, errors.CodeMoleculeInvalid, errors.GetCode(ae))
	assert.Equal(t, errors.CodeMoleculeInvalid, errors.GetCode(fmt.Errorf("outer: %w", ae)))
}

func TestConvenienceFactories(t *testing.T) {
	tests := []struct {
		ae   *errors.AppError
		code errors.ErrorCode
	}{
		{errors.NotFound("x"), errors.CodeNotFound},
		{errors.InvalidParam("x"), errors.CodeInvalidParam},
		{errors.InvalidState("x"), errors.CodeConflict},
		{errors.Unauthorized("x"), errors.CodeUnauthorized},
		{errors.Forbidden("x"), errors.CodeForbidden},
		{errors.Internal("x"), errors.CodeInternal},
		{errors.Conflict("x"), errors.CodeConflict},
		{errors.RateLimit("x"), errors.CodeRateLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.ae.Code)
		assert.Equal(t, "x", tt.ae.Message)
	}
}

func TestErrorChainTraversal(t *testing.T) {
	level0 := stderrors.New("disk full")
	level1 := errors.Wrap(level0, errors.CodeDBQueryError, "insert failed")
	level2 := errors.Wrap(level1, errors.CodeInternal, "failed to persist name record")

	assert.ErrorIs(t, level2, level0)

	var ae *errors.AppError
	require.True(t, stderrors.As(level2, &ae))
	assert.Equal(t, errors.CodeInternal, ae.Code)

	assert.True(t, errors.IsCode(level2, errors.CodeDBQueryError))
}
