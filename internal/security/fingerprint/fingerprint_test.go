package fingerprint_test

import (
	"testing"

	"github.com/5w1tchy/strength-api/internal/security/fingerprint"
)

func TestSum(t *testing.T) {
	k, err := fingerprint.New([]byte("0123456789abcdef0123"))
	if err != nil {
		t.Fatal(err)
	}

	a := k.Sum("s1", "hunter2")
	if len(a) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(a))
	}
	if a != k.Sum("s1", "hunter2") {
		t.Fatal("fingerprint must be deterministic")
	}
	if a == k.Sum("s2", "hunter2") {
		t.Fatal("different scopes must not collide")
	}
	if k.Sum("s1", "") == k.Sum("s", "1") {
		t.Fatal("scope separator missing")
	}
}

func TestNew_ShortPepper(t *testing.T) {
	if _, err := fingerprint.New([]byte("short")); err != fingerprint.ErrShortPepper {
		t.Fatalf("want ErrShortPepper, got %v", err)
	}
}

func TestFromEnv_FallsBackToJWTSecret(t *testing.T) {
	t.Setenv("HISTORY_PEPPER", "")
	t.Setenv("AUTH_JWT_SECRET", "a-long-enough-jwt-secret-value-123")
	if _, err := fingerprint.FromEnv(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
