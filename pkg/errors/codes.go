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
	ErrCodeStorageError       ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Sentinel-style aliases used by generic helpers.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Protocol Module Error Codes
const (
	ErrCodeProtocolNotFound      ErrorCode = "PROTO_001"
	ErrCodeProtocolAlreadyExists ErrorCode = "PROTO_002"
	ErrCodeProtocolEmpty         ErrorCode = "PROTO_003"
	ErrCodeProtocolNotProcessed  ErrorCode = "PROTO_004"
	ErrCodeAnalysisNotFound      ErrorCode = "PROTO_005"
	ErrCodeAnalysisFailed        ErrorCode = "PROTO_006"
)

// Document Processing Error Codes
const (
	ErrCodeDocumentTypeUnsupported ErrorCode = "DOC_001"
	ErrCodeDocumentTooLarge        ErrorCode = "DOC_002"
	ErrCodeDocumentExtractFailed   ErrorCode = "DOC_003"
	ErrCodeDocumentEmpty           ErrorCode = "DOC_004"
)

// Guideline Module Error Codes
const (
	ErrCodeGuidelineNotFound    ErrorCode = "GDL_001"
	ErrCodeGuidelineParseFailed ErrorCode = "GDL_002"
	ErrCodeGuidelineEmpty       ErrorCode = "GDL_003"
)

// AI/LLM Module Error Codes
const (
	ErrCodeAIProviderUnavailable ErrorCode = "AI_001"
	ErrCodeAIRequestFailed       ErrorCode = "AI_002"
	ErrCodeAIResponseInvalid     ErrorCode = "AI_003"
	ErrCodeAIProviderUnsupported ErrorCode = "AI_004"
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
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeProtocolNotFound:      http.StatusNotFound,
	ErrCodeProtocolAlreadyExists: http.StatusConflict,
	ErrCodeProtocolEmpty:         http.StatusBadRequest,
	ErrCodeProtocolNotProcessed:  http.StatusConflict,
	ErrCodeAnalysisNotFound:      http.StatusNotFound,
	ErrCodeAnalysisFailed:        http.StatusInternalServerError,

	ErrCodeDocumentTypeUnsupported: http.StatusBadRequest,
	ErrCodeDocumentTooLarge:        http.StatusRequestEntityTooLarge,
	ErrCodeDocumentExtractFailed:   http.StatusUnprocessableEntity,
	ErrCodeDocumentEmpty:           http.StatusBadRequest,

	ErrCodeGuidelineNotFound:    http.StatusNotFound,
	ErrCodeGuidelineParseFailed: http.StatusInternalServerError,
	ErrCodeGuidelineEmpty:       http.StatusInternalServerError,

	ErrCodeAIProviderUnavailable: http.StatusServiceUnavailable,
	ErrCodeAIRequestFailed:       http.StatusBadGateway,
	ErrCodeAIResponseInvalid:     http.StatusBadGateway,
	ErrCodeAIProviderUnsupported: http.StatusBadRequest,
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
	ErrCodeStorageError:       "object storage error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeProtocolNotFound:      "protocol not found",
	ErrCodeProtocolAlreadyExists: "protocol already exists",
	ErrCodeProtocolEmpty:         "protocol content is empty",
	ErrCodeProtocolNotProcessed:  "protocol has not been processed",
	ErrCodeAnalysisNotFound:      "analysis not found",
	ErrCodeAnalysisFailed:        "compliance analysis failed",

	ErrCodeDocumentTypeUnsupported: "unsupported document type",
	ErrCodeDocumentTooLarge:        "document exceeds size limit",
	ErrCodeDocumentExtractFailed:   "failed to extract document text",
	ErrCodeDocumentEmpty:           "document contains no text",

	ErrCodeGuidelineNotFound:    "guideline not found",
	ErrCodeGuidelineParseFailed: "failed to parse guideline file",
	ErrCodeGuidelineEmpty:       "guideline has no checklist items",

	ErrCodeAIProviderUnavailable: "LLM provider not available",
	ErrCodeAIRequestFailed:       "LLM request failed",
	ErrCodeAIResponseInvalid:     "LLM returned an unparseable response",
	ErrCodeAIProviderUnsupported: "unsupported LLM provider",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
