package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid payload", &InvalidPayloadError{Cause: errors.New("eof")}, InvalidPayloadMessage},
		{"wrapped invalid payload", fmt.Errorf("wrap: %w", ErrInvalidPayload), InvalidPayloadMessage},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), TimeoutMessage},
		{"empty", errors.New(""), GenericErrorMessage},
		{"nil", nil, GenericErrorMessage},
		{"service", errors.New("quota exceeded"), "quota exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Fatalf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
