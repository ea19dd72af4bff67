package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeMoleculeInvalid   = ErrCodeMoleculeInvalidGraph
	CodeMoleculeNotFound  = ErrCodeMoleculeNotFound
	CodeNamingRuleFailed  = ErrCodeNamingRuleFailed
	CodeNameRecordMissing = ErrCodeNameRecordNotFound
)

// Molecule Input Error Codes
const (
	ErrCodeMoleculeInvalidGraph   ErrorCode = "MOL_001"
	ErrCodeMoleculeEmptyAtoms     ErrorCode = "MOL_002"
	ErrCodeMoleculeDanglingBond   ErrorCode = "MOL_003"
	ErrCodeMoleculeNotFound       ErrorCode = "MOL_004"
	ErrCodeMoleculeBondOrderBad   ErrorCode = "MOL_005"
	ErrCodeMoleculeDuplicateAtom  ErrorCode = "MOL_006"
	ErrCodeMoleculeHashFailed     ErrorCode = "MOL_007"
	ErrCodeMoleculeUnknownElement ErrorCode = "MOL_008"
)

// Nomenclature Engine Error Codes
const (
	ErrCodeNamingRuleFailed        ErrorCode = "NAM_001"
	ErrCodeNamingPhaseIncomplete   ErrorCode = "NAM_002"
	ErrCodeNamingNoParentStructure ErrorCode = "NAM_003"
	ErrCodeNamingParentFrozen      ErrorCode = "NAM_004"
	ErrCodeNamingNoCandidates      ErrorCode = "NAM_005"
	ErrCodeNamingMethodUnsupported ErrorCode = "NAM_006"
	ErrCodeNamingNumberingFailed   ErrorCode = "NAM_007"
	ErrCodeNamingAssemblyFailed    ErrorCode = "NAM_008"
	ErrCodeNamingValidationFailed  ErrorCode = "NAM_009"
	ErrCodeNamingDictionaryMiss    ErrorCode = "NAM_010"
)

// Name Registry Error Codes
const (
	ErrCodeNameRecordNotFound      ErrorCode = "REG_001"
	ErrCodeNameRecordAlreadyExists ErrorCode = "REG_002"
	ErrCodeNameRecordSaveFailed    ErrorCode = "REG_003"
	ErrCodeMigrationFailed         ErrorCode = "REG_004"
)

// Infrastructure Error Codes (mapped from old names)
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeMoleculeInvalidGraph:   http.StatusBadRequest,
	ErrCodeMoleculeEmptyAtoms:     http.StatusBadRequest,
	ErrCodeMoleculeDanglingBond:   http.StatusBadRequest,
	ErrCodeMoleculeNotFound:       http.StatusNotFound,
	ErrCodeMoleculeBondOrderBad:   http.StatusBadRequest,
	ErrCodeMoleculeDuplicateAtom:  http.StatusBadRequest,
	ErrCodeMoleculeHashFailed:     http.StatusInternalServerError,
	ErrCodeMoleculeUnknownElement: http.StatusBadRequest,

	ErrCodeNamingRuleFailed:        http.StatusInternalServerError,
	ErrCodeNamingPhaseIncomplete:   http.StatusInternalServerError,
	ErrCodeNamingNoParentStructure: http.StatusUnprocessableEntity,
	ErrCodeNamingParentFrozen:      http.StatusConflict,
	ErrCodeNamingNoCandidates:      http.StatusUnprocessableEntity,
	ErrCodeNamingMethodUnsupported: http.StatusBadRequest,
	ErrCodeNamingNumberingFailed:   http.StatusInternalServerError,
	ErrCodeNamingAssemblyFailed:    http.StatusInternalServerError,
	ErrCodeNamingValidationFailed:  http.StatusUnprocessableEntity,
	ErrCodeNamingDictionaryMiss:    http.StatusInternalServerError,

	ErrCodeNameRecordNotFound:      http.StatusNotFound,
	ErrCodeNameRecordAlreadyExists: http.StatusConflict,
	ErrCodeNameRecordSaveFailed:    http.StatusInternalServerError,
	ErrCodeMigrationFailed:         http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeMoleculeInvalidGraph:   "invalid molecular graph",
	ErrCodeMoleculeEmptyAtoms:     "molecule has no atoms",
	ErrCodeMoleculeDanglingBond:   "bond references unknown atom",
	ErrCodeMoleculeNotFound:       "molecule not found",
	ErrCodeMoleculeBondOrderBad:   "unsupported bond order",
	ErrCodeMoleculeDuplicateAtom:  "duplicate atom id",
	ErrCodeMoleculeHashFailed:     "structure hash computation failed",
	ErrCodeMoleculeUnknownElement: "unknown element symbol",

	ErrCodeNamingRuleFailed:        "nomenclature rule execution failed",
	ErrCodeNamingPhaseIncomplete:   "required naming phase incomplete",
	ErrCodeNamingNoParentStructure: "no parent structure resolvable",
	ErrCodeNamingParentFrozen:      "parent structure already set",
	ErrCodeNamingNoCandidates:      "no candidate parent structures",
	ErrCodeNamingMethodUnsupported: "unsupported nomenclature method",
	ErrCodeNamingNumberingFailed:   "numbering assignment failed",
	ErrCodeNamingAssemblyFailed:    "name assembly failed",
	ErrCodeNamingValidationFailed:  "assembled name failed validation",
	ErrCodeNamingDictionaryMiss:    "nomenclature dictionary lookup miss",

	ErrCodeNameRecordNotFound:      "name record not found",
	ErrCodeNameRecordAlreadyExists: "name record already exists",
	ErrCodeNameRecordSaveFailed:    "failed to persist name record",
	ErrCodeMigrationFailed:         "database migration failed",
}

// HTTPStatus returns the HTTP status mapped to the code, or 500 when unmapped.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := ErrorCodeHTTPStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the default human-readable message for the code.
func (c ErrorCode) DefaultMessage() string {
	if msg, ok := ErrorCodeMessage[c]; ok {
		return msg
	}
	return "unknown error"
}

// Module returns the module segment of the code ("COMMON", "MOL", "NAM", "REG").
func (c ErrorCode) Module() string {
	parts := strings.SplitN(string(c), "_", 2)
	return parts[0]
}
