package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

func newManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret, "test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "super-secret")
	tok, err := tm.Issue("acc-1", domain.RoleLandlord)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := tm.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.AccountID != "acc-1" || id.Role != domain.RoleLandlord {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestVerify_AlteredSignature(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "super-secret")
	tok, err := tm.Issue("acc-1", domain.RoleRenter)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := tm.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newManager(t, "right-secret").Issue("acc-2", domain.RoleRenter)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := newManager(t, "wrong-secret").Verify(tok); err == nil {
		t.Fatalf("expected error for invalid signature")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "secret")
	past := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return past }
	tok, err := tm.Issue("acc-3", domain.RoleRenter)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tm.now = time.Now
	if _, err := tm.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := newManager(t, "k").Verify("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestIssue_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	if _, err := newManager(t, "k").Issue("acc", domain.Role("admin")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("", "", 0); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"", "", true},
		{"Bearer a b", "", true},
	}
	for _, tc := range cases {
		got, err := ExtractToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ExtractToken(%q): expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ExtractToken(%q) = %q, %v; want %q", tc.header, got, err, tc.want)
		}
	}
}
