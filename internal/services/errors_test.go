package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"watchlist/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrTransientStore, "listsvc", "set", "persist list", base)
	if !errors.Is(err, services.ErrTransientStore) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"listsvc", "set", "persist list", "disk full"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransientStore) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindClassifiesWrappedErrors(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{services.Wrap(services.ErrConflict, "listsvc", "add", "dup", nil), services.ErrConflict},
		{fmt.Errorf("outer: %w", services.ErrAuthIncorrect), services.ErrAuthIncorrect},
		{errors.New("plain"), nil},
		{nil, nil},
	}
	for _, tc := range tests {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
