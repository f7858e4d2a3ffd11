package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"desynflow-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// Single-use purpose tokens: payment-receipt upload links and password
// resets. Upload tokens die with the receipt's link_generated status;
// reset tokens carry a fingerprint of the password hash they were issued
// against, so the first successful reset invalidates them.

const (
	PurposeReceiptUpload = "receipt_upload"
	PurposePasswordReset = "password_reset"
)

type PurposeClaims struct {
	Purpose     string `json:"purpose"`
	SubjectID   int    `json:"subject_id"` // receipt ID or user ID depending on purpose
	Fingerprint string `json:"fpr,omitempty"`
	jwt.RegisteredClaims
}

// BoundTo reports whether the token was issued against this password hash.
// A changed hash means the reset already happened.
func (c *PurposeClaims) BoundTo(passwordHash string) bool {
	return c.Fingerprint != "" && c.Fingerprint == resetFingerprint(passwordHash)
}

func resetFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// GenerateUploadToken creates the token embedded in a payment link.
// It expires at end of day on the receipt's due date.
func (j *JWTManager) GenerateUploadToken(receiptID int, dueDate time.Time) (string, error) {
	now := timeutil.Now()
	expiry := timeutil.DayStart(dueDate).Add(24 * time.Hour)

	claims := &PurposeClaims{
		Purpose:   PurposeReceiptUpload,
		SubjectID: receiptID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// GenerateResetToken creates a password-reset token valid for 1 hour,
// bound to the password hash in force when it was issued.
func (j *JWTManager) GenerateResetToken(userID int, passwordHash string) (string, error) {
	now := timeutil.Now()

	claims := &PurposeClaims{
		Purpose:     PurposePasswordReset,
		SubjectID:   userID,
		Fingerprint: resetFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidatePurposeToken verifies a purpose token and checks its purpose claim.
func (j *JWTManager) ValidatePurposeToken(tokenString, purpose string) (*PurposeClaims, error) {
	claims := &PurposeClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Purpose != purpose {
		return nil, errors.New("invalid token purpose")
	}

	return claims, nil
}
