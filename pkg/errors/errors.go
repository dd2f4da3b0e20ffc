// Package errors provides a categorized error taxonomy for the sales
// analytics pipeline.
//
// Errors carry a category (which drives the process exit code), a
// specific code, optional context values, and an optional suggestion
// shown to the user. Stack traces are captured via github.com/pkg/errors.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryAnalytics     ErrorCategory = "analytics"
	CategoryEnrichment    ErrorCategory = "enrichment"
	CategoryNetwork       ErrorCategory = "network"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFileEmpty      ErrorCode = "file_empty"
	CodeFilePermission ErrorCode = "file_permission"
	CodeEncodingError  ErrorCode = "encoding_error"
	CodeWriteFailed    ErrorCode = "write_failed"
	CodeDirectoryError ErrorCode = "directory_error"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeFieldCount    ErrorCode = "field_count"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"
	CodeNoValidData   ErrorCode = "no_valid_data"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Analytics errors
	CodeAggregationFailed ErrorCode = "aggregation_failed"

	// Enrichment errors
	CodeEnrichmentFailed ErrorCode = "enrichment_failed"

	// Network errors
	CodeConnectionFailed  ErrorCode = "connection_failed"
	CodeTimeout           ErrorCode = "timeout"
	CodeBadStatus         ErrorCode = "bad_status"
	CodeMalformedResponse ErrorCode = "malformed_response"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
	CodeCancelled       ErrorCode = "cancelled"
)

// AnalyzerError is the base error type for all application errors
type AnalyzerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AnalyzerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AnalyzerError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryAnalytics, CategoryEnrichment, CategoryInternal:
		return 5
	case CategoryNetwork:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AnalyzerError) WithContext(key string, value interface{}) *AnalyzerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AnalyzerError) WithSuggestion(suggestion string) *AnalyzerError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AnalyzerError
func New(category ErrorCategory, code ErrorCode, message string) *AnalyzerError {
	return &AnalyzerError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AnalyzerError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AnalyzerError {
	if err == nil {
		return nil
	}

	return &AnalyzerError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// AsAnalyzerError extracts an AnalyzerError from an error chain
func AsAnalyzerError(err error) (*AnalyzerError, bool) {
	var analyzerErr *AnalyzerError
	if errors.As(err, &analyzerErr) {
		return analyzerErr, true
	}
	return nil, false
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFileEmpty:
		message = fmt.Sprintf("file is empty or contains no data rows: %s", path)
		suggestion = "ensure the file contains a header line and at least one data row"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeEncodingError:
		message = fmt.Sprintf("unable to decode file with any supported encoding: %s", path)
		suggestion = "save the file as UTF-8, Latin-1 or Windows-1252 and try again"
	case CodeWriteFailed:
		message = fmt.Sprintf("failed to write file: %s", path)
		suggestion = "check available disk space and write permissions"
	case CodeDirectoryError:
		message = fmt.Sprintf("directory error: %s", path)
		suggestion = "ensure the directory exists and is accessible"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, file string, line int, value string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeFieldCount:
		message = fmt.Sprintf("wrong field count in file %s at line %d: '%s'", file, line, value)
		suggestion = "each data row must have exactly 8 pipe-delimited fields"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d: '%s'", file, line, value)
		suggestion = "correct the data format or remove the invalid entry"
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d", file, line)
		suggestion = "check the data format and ensure it matches the expected structure"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34')"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	case CodeNoValidData:
		message = "no valid transactions remain after validation and filtering"
		suggestion = "relax the filter criteria or check the input data quality"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// AnalyticsError creates an analytics-related error
func AnalyticsError(code ErrorCode, operation string, err error) *AnalyzerError {
	message := fmt.Sprintf("analytics error during %s", operation)
	suggestion := "check the validated data set and try again"

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryAnalytics, code, message)
	} else {
		result = New(CategoryAnalytics, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// EnrichmentError creates an enrichment-related error
func EnrichmentError(code ErrorCode, operation string, err error) *AnalyzerError {
	message := fmt.Sprintf("enrichment error during %s", operation)
	suggestion := "verify the catalog data and product identifier formats"

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryEnrichment, code, message)
	} else {
		result = New(CategoryEnrichment, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// NetworkError creates a network-related error
func NetworkError(code ErrorCode, endpoint string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeConnectionFailed:
		message = fmt.Sprintf("connection failed to %s", endpoint)
		suggestion = "check network connectivity and endpoint availability"
	case CodeTimeout:
		message = fmt.Sprintf("timeout connecting to %s", endpoint)
		suggestion = "increase the catalog timeout or check network speed"
	case CodeBadStatus:
		message = fmt.Sprintf("unexpected response status from %s", endpoint)
		suggestion = "the catalog service may be unavailable; try again later"
	case CodeMalformedResponse:
		message = fmt.Sprintf("malformed response body from %s", endpoint)
		suggestion = "the catalog service returned unexpected data; try again later"
	default:
		message = fmt.Sprintf("network error: %s", endpoint)
		suggestion = "check network connection and try again"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryNetwork, code, message)
	} else {
		result = New(CategoryNetwork, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("endpoint", endpoint)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeCancelled:
		message = fmt.Sprintf("operation cancelled during %s", operation)
		suggestion = "the run was interrupted; partial output files may exist"
	default:
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}
