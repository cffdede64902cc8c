package core

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestAPIErrorKind(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{name: "no response", status: 0, want: KindNetwork},
		{name: "unauthorized", status: http.StatusUnauthorized, want: KindAuth},
		{name: "forbidden", status: http.StatusForbidden, want: KindAuth},
		{name: "not found", status: http.StatusNotFound, want: KindNotFound},
		{name: "bad request", status: http.StatusBadRequest, want: KindValidation},
		{name: "server error", status: http.StatusInternalServerError, want: KindServer},
		{name: "bad gateway", status: http.StatusBadGateway, want: KindServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{Status: tt.status}
			if got := err.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "backend detail wins",
			err:  &APIError{Status: 400, Message: "Email đã tồn tại"},
			want: "Email đã tồn tại",
		},
		{
			name: "field error when no detail",
			err:  &APIError{Status: 400, Fields: map[string]string{"Email": "invalid email"}},
			want: "invalid email",
		},
		{
			name: "network fallback",
			err:  &APIError{Status: 0},
			want: "Cannot reach the server. Check your connection.",
		},
		{
			name: "auth fallback",
			err:  &APIError{Status: http.StatusForbidden},
			want: "You do not have permission to do this.",
		},
		{
			name: "not found fallback",
			err:  &APIError{Status: http.StatusNotFound},
			want: "The record no longer exists.",
		},
		{
			name: "server fallback",
			err:  &APIError{Status: http.StatusInternalServerError},
			want: "The operation failed. Please try again.",
		},
		{
			name: "wrapped api error",
			err:  errors.Wrap(&APIError{Status: 400, Message: "nope"}, "saving student"),
			want: "nope",
		},
		{
			name: "validation field error",
			err:  NewValidationError(errors.New("invalid input"), FieldError{Field: "Ten", Error: "this field is required"}),
			want: "this field is required",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
