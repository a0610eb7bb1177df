package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	parser := NewParser("test-secret")

	userID := uuid.New()
	token, expiresAt, err := issuer.Issue(userID, "A. Kurian", "analyst")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("token already expired at issue time")
	}

	claims, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Name != "A. Kurian" || claims.Role != "analyst" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-one", time.Hour)
	parser := NewParser("secret-two")

	token, _, err := issuer.Issue(uuid.New(), "", "staff")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := NewParser("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	parser := NewParser("test-secret")

	token, _, err := issuer.Issue(uuid.New(), "", "staff")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := parser.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
