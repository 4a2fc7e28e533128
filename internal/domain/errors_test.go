package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := ExtractionFailure("cascade exhausted", nil)
	if err.Error() != "[extraction] cascade exhausted" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	wrapped := GenerationError("send request", errors.New("timeout"))
	if wrapped.Error() != "[generation] send request: timeout" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := IOError("read upload", cause)

	if !errors.Is(err, cause) {
		t.Error("Unwrap must expose the cause")
	}
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{
			name:    "direct match",
			err:     SessionNotFound("abc"),
			errType: ErrorTypeSessionNotFound,
			want:    true,
		},
		{
			name:    "type mismatch",
			err:     ValidationError("empty input", nil),
			errType: ErrorTypeExtraction,
			want:    false,
		},
		{
			name:    "wrapped domain error",
			err:     fmt.Errorf("handler: %w", GenerationError("upstream", nil)),
			errType: ErrorTypeGeneration,
			want:    true,
		},
		{
			name:    "plain error",
			err:     errors.New("plain"),
			errType: ErrorTypeValidation,
			want:    false,
		},
		{
			name:    "nil error",
			err:     nil,
			errType: ErrorTypeValidation,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsType(tt.err, tt.errType); got != tt.want {
				t.Errorf("IsType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionNotFound_Message(t *testing.T) {
	err := SessionNotFound("550e8400-e29b-41d4-a716-446655440000")
	if err.Type != ErrorTypeSessionNotFound {
		t.Errorf("Type = %s", err.Type)
	}
	if err.Message != "session not found: 550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("Message = %s", err.Message)
	}
}
