package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "unknown parameter %q", "maxRadius")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Message != `unknown parameter "maxRadius"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_CONFIG: unknown parameter "maxRadius"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeAssetLoad, cause, "load palette")

	if err.Code != ErrCodeAssetLoad {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAssetLoad)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
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
		{"matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "test"), ErrCodeNotFound, false},
		{"outer code", Wrap(ErrCodeExportFailed, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeExportFailed, true},
		{"inner code", Wrap(ErrCodeExportFailed, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeInvalidFormat, true},
		{"fmt wrapped", fmt.Errorf("render: %w", New(ErrCodeUnknownSketch, "x")), ErrCodeUnknownSketch, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
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
		{"Error type", New(ErrCodeUnknownSketch, "test"), ErrCodeUnknownSketch},
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

func TestIsDegradable(t *testing.T) {
	if !IsDegradable(New(ErrCodeAssetLoad, "font")) {
		t.Error("asset load should be degradable")
	}
	if !IsDegradable(Wrap(ErrCodeExportFailed, errors.New("disk full"), "png")) {
		t.Error("export failure should be degradable")
	}
	if IsDegradable(New(ErrCodeInvalidConfig, "bad")) {
		t.Error("config error should not be degradable")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidConfig, "x"), 400},
		{New(ErrCodeUnknownSketch, "x"), 404},
		{New(ErrCodeNotFound, "x"), 404},
		{New(ErrCodeUnsupported, "x"), 501},
		{errors.New("boom"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
