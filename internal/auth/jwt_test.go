package auth

import (
	"strings"
	"testing"
	"time"

	"desynflow-backend/internal/config"
	"desynflow-backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-do-not-use"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "desynflow-test"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	j := NewJWTManager(testConfig())

	user := &models.User{
		ID:       42,
		Email:    "csr@desynflow.test",
		Role:     "csr",
		IsActive: true,
	}

	token, err := j.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := j.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != "csr" {
		t.Errorf("Role = %q, want csr", claims.Role)
	}
	if claims.Issuer != "desynflow-test" {
		t.Errorf("Issuer = %q, want desynflow-test", claims.Issuer)
	}
}

func TestValidateTokenTampered(t *testing.T) {
	j := NewJWTManager(testConfig())

	token, err := j.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "client"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := j.ValidateToken(tampered); err == nil {
		t.Error("expected error for tampered token, got nil")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	j := NewJWTManager(testConfig())
	token, _ := j.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "client"})

	other := testConfig()
	other.JWT.Secret = "different-secret"
	if _, err := NewJWTManager(other).ValidateToken(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestUploadTokenPurpose(t *testing.T) {
	j := NewJWTManager(testConfig())

	dueDate := time.Now().AddDate(0, 0, 7)
	token, err := j.GenerateUploadToken(99, dueDate)
	if err != nil {
		t.Fatalf("GenerateUploadToken: %v", err)
	}

	claims, err := j.ValidatePurposeToken(token, PurposeReceiptUpload)
	if err != nil {
		t.Fatalf("ValidatePurposeToken: %v", err)
	}
	if claims.SubjectID != 99 {
		t.Errorf("SubjectID = %d, want 99", claims.SubjectID)
	}

	// An upload token must not pass as a reset token
	if _, err := j.ValidatePurposeToken(token, PurposePasswordReset); err == nil {
		t.Error("upload token accepted for password reset purpose")
	}
}

func TestUploadTokenExpired(t *testing.T) {
	j := NewJWTManager(testConfig())

	// Due date two days in the past means the token is already expired
	token, err := j.GenerateUploadToken(7, time.Now().AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("GenerateUploadToken: %v", err)
	}

	if _, err := j.ValidatePurposeToken(token, PurposeReceiptUpload); err == nil {
		t.Error("expected error for expired upload token")
	}
}

func TestResetTokenBoundToPasswordHash(t *testing.T) {
	j := NewJWTManager(testConfig())

	oldHash, _ := HashPassword("old-password")
	token, err := j.GenerateResetToken(5, oldHash)
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	claims, err := j.ValidatePurposeToken(token, PurposePasswordReset)
	if err != nil {
		t.Fatalf("ValidatePurposeToken: %v", err)
	}
	if claims.SubjectID != 5 {
		t.Errorf("SubjectID = %d, want 5", claims.SubjectID)
	}
	if !claims.BoundTo(oldHash) {
		t.Error("token rejected against the hash it was issued for")
	}

	// Once the password changes the token must stop working, even though
	// it is still within its expiry window.
	newHash, _ := HashPassword("new-password")
	if claims.BoundTo(newHash) {
		t.Error("token still accepted after the password changed")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}
