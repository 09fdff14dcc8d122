package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "ErrTodoNotFound",
			err:      ErrTodoNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrTodoNotFound",
			err:      fmt.Errorf("failed to find todo: %w", ErrTodoNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrTodoNotFound",
			err:      NewStoreError("todo", "delete", "no rows", ErrTodoNotFound),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	if IsDuplicateError(errors.New("boom")) {
		t.Error("plain error must not be a duplicate error")
	}
	if !IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)) {
		t.Error("wrapped ErrDuplicate must be a duplicate error")
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("todo", "list_pending", "query failed", cause)

	want := "list_pending operation on todo failed: query failed: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError must unwrap to its cause")
	}

	bare := NewStoreError("todo", "create", "invalid", nil)
	if bare.Error() != "create operation on todo failed: invalid" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
