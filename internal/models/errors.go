package models

import "fmt"

// Custom error types for better error handling
type (
	// ValidationError represents a malformed request field
	ValidationError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}

	// NotFoundError represents a missing object in storage
	NotFoundError struct {
		Resource string `json:"resource"`
		Path     string `json:"path"`
	}

	// DecodeError represents a corrupt or unsupported input image
	DecodeError struct {
		Reason string `json:"reason"`
	}

	// ProcessingError represents a transform pipeline failure
	ProcessingError struct {
		Operation string `json:"operation"`
		Reason    string `json:"reason"`
	}

	// StorageError represents a storage provider fault
	StorageError struct {
		Operation string `json:"operation"`
		Reason    string `json:"reason"`
	}

	// StorageUnavailableError represents a failed connectivity check
	// against the storage endpoint; callers retry it with backoff at
	// startup only
	StorageUnavailableError struct {
		Endpoint string `json:"endpoint"`
		Reason   string `json:"reason"`
	}

	// UnsupportedError represents an operation the backend cannot serve
	UnsupportedError struct {
		Operation string `json:"operation"`
		Reason    string `json:"reason"`
	}
)

// Error implementations for custom error types
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Path)
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image: %s", e.Reason)
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("processing error during %s: %s", e.Operation, e.Reason)
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %s", e.Operation, e.Reason)
}

func (e StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable at %s: %s", e.Endpoint, e.Reason)
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported: %s", e.Operation, e.Reason)
}

// IsNotFound reports whether err is a NotFoundError. Wrapped errors
// deliberately do not match; storage adapters return the type directly.
func IsNotFound(err error) bool {
	switch err.(type) {
	case NotFoundError, *NotFoundError:
		return true
	}
	return false
}
