package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidAnalysisType   = errors.New("invalid analysis type")
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
	ErrSchemaValidation      = errors.New("analysis response failed schema validation")
)

const (
	ErrorCodeInput             = "INPUT_ERROR"
	ErrorCodeProviderExhausted = "PROVIDERS_EXHAUSTED"
	ErrorCodeSchemaMismatch    = "SCHEMA_MISMATCH"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

// ExhaustedError carries the full attempt history when every configured
// provider's retry budget was spent without success.
type ExhaustedError struct {
	Attempts []ProviderAttempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all providers exhausted after %d attempts", len(e.Attempts))
}

func (e *ExhaustedError) Unwrap() error { return ErrAllProvidersExhausted }

// SchemaError reports a provider response that did not conform to the result
// schema after one repair attempt.
type SchemaError struct {
	Provider string
	Cause    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("provider %s: schema validation failed: %v", e.Provider, e.Cause)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaValidation }
