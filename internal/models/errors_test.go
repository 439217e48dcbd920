package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ValidationError{Field: "path", Message: "required"}, "validation error on field 'path': required"},
		{NotFoundError{Resource: "image", Path: "images/a.jpg"}, "image not found: images/a.jpg"},
		{DecodeError{Reason: "truncated jpeg"}, "failed to decode image: truncated jpeg"},
		{ProcessingError{Operation: "resize", Reason: "oom"}, "processing error during resize: oom"},
		{StorageError{Operation: "put", Reason: "timeout"}, "storage error during put: timeout"},
		{StorageUnavailableError{Endpoint: "http://minio:9000", Reason: "refused"}, "storage unavailable at http://minio:9000: refused"},
		{UnsupportedError{Operation: "pattern clear", Reason: "flush only"}, "pattern clear is not supported: flush only"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundError{Resource: "image", Path: "x"}))
	assert.True(t, IsNotFound(&NotFoundError{Resource: "image", Path: "x"}))
	assert.False(t, IsNotFound(StorageError{Operation: "get", Reason: "x"}))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(fmt.Errorf("wrapped: %w", NotFoundError{})))
}
