package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "sdvsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "sdvsite.yaml" {
			t.Errorf("expected context file=sdvsite.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := LinkError("broken links").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryLinks) {
			t.Error("expected error to have links category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if !err.IsFatal() {
			t.Error("expected link error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ConfigError("bad base url").Build()
		wrapped := fmt.Errorf("load: %w", inner)

		if !HasCategory(wrapped, CategoryConfig) {
			t.Error("expected wrapped error to keep config category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to map to internal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "write page").
		Warning().
		WithContext("path", "build/index.html").
		WithContextMap(ErrorContext{"attempt": 1}).
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if got := err.Error(); got != "[filesystem:warning] write page: permission denied" {
		t.Errorf("unexpected Error() output: %s", got)
	}
	if _, ok := err.Context().Get("attempt"); !ok {
		t.Error("expected merged context value")
	}

	withExtra := err.WithContext("page", "/docs/intro")
	if _, ok := err.Context().Get("page"); ok {
		t.Error("WithContext must not mutate the original error")
	}
	if v, _ := withExtra.Context().GetString("page"); v != "/docs/intro" {
		t.Errorf("expected page context, got %q", v)
	}
}

func TestErrorIs(t *testing.T) {
	a := LinkError("broken internal links").Build()
	b := LinkError("broken internal links").WithContext("count", 3).Build()
	c := ConfigError("broken internal links").Build()

	if !errors.Is(a, b) {
		t.Error("expected same category and message to match")
	}
	if errors.Is(a, c) {
		t.Error("expected different categories not to match")
	}
}
