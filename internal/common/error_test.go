package common

import (
	"errors"
	"testing"
)

func TestErrTokenExpired_IsInvalidToken(t *testing.T) {
	if !errors.Is(ErrTokenExpired, ErrInvalidToken) {
		t.Fatalf("expected ErrTokenExpired to match ErrInvalidToken")
	}
	if errors.Is(ErrInvalidToken, ErrTokenExpired) {
		t.Fatalf("ErrInvalidToken must not match ErrTokenExpired")
	}
}
