package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidKind, "unrecognized object kind %q", "Cone")

	if err.Code != ErrCodeInvalidKind {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidKind)
	}

	if err.Message != `unrecognized object kind "Cone"` {
		t.Errorf("Message = %v, want %v", err.Message, `unrecognized object kind "Cone"`)
	}

	expected := `INVALID_KIND: unrecognized object kind "Cone"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeRenderFailed, cause, "render test0_1")

	if err.Code != ErrCodeRenderFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInfeasible, "test"),
			code:     ErrCodeInfeasible,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInfeasible, "test"),
			code:     ErrCodeViolation,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeRenderFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeRenderFailed,
			expected: true,
		},
		{
			name:     "wrapped with fmt",
			err:      fmt.Errorf("test 3: %w", New(ErrCodeInfeasible, "inner")),
			code:     ErrCodeInfeasible,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeViolation, "test"), ErrCodeViolation},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidOptions, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidKind, "x"), http.StatusBadRequest},
		{New(ErrCodeInfeasible, "x"), http.StatusUnprocessableEntity},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeRenderFailed, "x"), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFieldOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"no field", New(ErrCodeInvalidOptions, "bad"), ""},
		{"direct", New(ErrCodeInvalidOptions, "bad").WithField("clearance"), "clearance"},
		{"validation", ValidateFraction("box_min_scale", 2), "box_min_scale"},
		{"fmt wrapped", fmt.Errorf("load: %w", ValidateCount("tests", -1, 1)), "tests"},
		{"cause carries field", Wrap(ErrCodeInvalidInput, ValidatePositive("extent", 0), "config"), "extent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FieldOf(tt.err); got != tt.want {
				t.Errorf("FieldOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
