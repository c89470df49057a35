package errors

import (
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "Without cause",
			err:  New(ErrCodeNotFound, "friendship not found"),
			want: "NOT_FOUND: friendship not found",
		},
		{
			name: "With cause",
			err:  Wrap(fmt.Errorf("connection refused"), ErrCodeInternalError, "failed to load user"),
			want: "INTERNAL_ERROR: failed to load user (connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Direct AppError",
			err:  New(ErrCodeValidation, "cannot pulse yourself"),
			want: ErrCodeValidation,
		},
		{
			name: "Wrapped AppError",
			err:  fmt.Errorf("bulk invite: %w", New(ErrCodeForbidden, "not the event host")),
			want: ErrCodeForbidden,
		},
		{
			name: "Plain error",
			err:  fmt.Errorf("plain"),
			want: "",
		},
		{
			name: "Nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Wrap(fmt.Errorf("duplicate key"), ErrCodeAlreadyExists, "user already saved")

	if !HasCode(err, ErrCodeAlreadyExists) {
		t.Error("HasCode() = false, want true for matching code")
	}
	if HasCode(err, ErrCodeNotFound) {
		t.Error("HasCode() = true, want false for different code")
	}
}
