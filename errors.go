package treelate

import "fmt"

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// StorageError indicates a persistent store failure. Read failures are
// returned with Op "load" alongside a usable empty store; callers such
// as the mirror recover them, so only write failures abort an operation.
type StorageError struct {
	Op    string // "save" or "load"
	Path  string // Storage location, if known
	Cause error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a remote translation backend failure (network
// error, API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// InvalidResponseError indicates the remote backend answered with a
// well-formed response that lacks a translated-text field.
type InvalidResponseError struct {
	Endpoint string
	Detail   string
}

func (e *InvalidResponseError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("invalid response from %s: %s", e.Endpoint, e.Detail)
	}
	return fmt.Sprintf("invalid response: %s", e.Detail)
}

// CacheError indicates a session cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
