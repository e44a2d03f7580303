package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, 1, "admin", "admin@test.local", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 1 || claims.Username != "admin" || claims.Email != "admin@test.local" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Error("expected admin claims")
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret-a", 1, "alice", "alice@test.local", "user")

	if _, err := ValidateToken("secret-b", token); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not.a.token"); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}

func TestTokensHaveUniqueJTI(t *testing.T) {
	secret := "test-secret"

	a, _ := GenerateToken(secret, 1, "alice", "alice@test.local", "user")
	b, _ := GenerateToken(secret, 1, "alice", "alice@test.local", "user")

	ca, _ := ValidateToken(secret, a)
	cb, _ := ValidateToken(secret, b)
	if ca.ID == cb.ID {
		t.Error("expected distinct JTIs for separate tokens")
	}
}
