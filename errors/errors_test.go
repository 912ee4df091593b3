package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNoParameterMatch, "no match")
	if err.Code != ErrCodeNoParameterMatch {
		t.Errorf("expected code %s, got %s", ErrCodeNoParameterMatch, err.Code)
	}
	if err.Message != "no match" {
		t.Errorf("expected message 'no match', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("NO_PARAMETER_MATCH should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeStoreFailed, "disk full")
	if !err.Retryable {
		t.Error("STORE_FAILED should be retryable")
	}
}

func TestAppError_NoParameterMatch(t *testing.T) {
	err := NoParameterMatch("acme.Mailer", "transport")
	if err.Code != ErrCodeNoParameterMatch {
		t.Errorf("expected NO_PARAMETER_MATCH, got %s", err.Code)
	}
	if err.Message != "Unable to auto-wire parameter transport of class acme.Mailer." {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["class"] != "acme.Mailer" || err.Details["parameter"] != "transport" {
		t.Errorf("expected class and parameter in details, got %v", err.Details)
	}
}

func TestAppError_MissingConfig_Path(t *testing.T) {
	err := MissingConfig([]string{"foo", "missing"})
	if err.Message != "Failed to read config: foo -> missing" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["path"] != "foo -> missing" {
		t.Errorf("expected path detail, got %v", err.Details["path"])
	}
}

func TestAppError_MissingConfig_CopiesKeys(t *testing.T) {
	keys := []string{"a", "b"}
	err := MissingConfig(keys)
	keys[0] = "changed"
	got := err.Details["keys"].([]string)
	if got[0] != "a" {
		t.Errorf("expected keys to be copied, got %v", got)
	}
}

func TestAppError_ReflectionFailed_Cause(t *testing.T) {
	cause := fmt.Errorf("not registered")
	err := ReflectionFailed("acme.Unknown", cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NoParameterMatch("c", "p").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["class"] != "c" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetails_Nil(t *testing.T) {
	err := Internal(nil).WithDetails(nil)
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized even with nil input")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestHasCode_WalksChain(t *testing.T) {
	inner := ReflectionFailed("acme.X", nil)
	outer := ConstructionFailed("acme.X", inner)
	wrapped := fmt.Errorf("bootstrap: %w", outer)

	if !HasCode(wrapped, ErrCodeConstructionFailed) {
		t.Error("expected CONSTRUCTION_FAILED in chain")
	}
	if !HasCode(wrapped, ErrCodeReflectionFailed) {
		t.Error("expected REFLECTION_FAILED in chain")
	}
	if HasCode(wrapped, ErrCodeNoParameterMatch) {
		t.Error("did not expect NO_PARAMETER_MATCH in chain")
	}

	found, ok := FindCode(wrapped, ErrCodeReflectionFailed)
	if !ok || found != inner {
		t.Error("expected FindCode to return the inner error")
	}
}

func TestAsAppError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", StoreFailed("/tmp/x", "save", stderrors.New("io")))
	appErr, ok := AsAppError(err)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Code != ErrCodeStoreFailed {
		t.Errorf("expected STORE_FAILED, got %s", appErr.Code)
	}
	if IsAppError(stderrors.New("plain")) {
		t.Error("plain error is not an AppError")
	}
}
