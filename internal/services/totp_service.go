package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "DesynFlow"

var (
	ErrNoTOTPSecret    = errors.New("2FA setup has not been started")
	ErrInvalidTOTPCode = errors.New("invalid verification code")
)

// TOTPService handles two-factor setup and login verification for staff
// accounts handling payments.
type TOTPService struct {
	userRepo   *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewTOTPService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *TOTPService {
	return &TOTPService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// GenerateSetup creates a new TOTP secret and QR code for a user
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	// Store the secret (not yet enabled)
	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}
	qrBase64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + qrBase64,
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable verifies a TOTP code and enables 2FA for the user
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if user.TOTPSecret == "" {
		return ErrNoTOTPSecret
	}

	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}

	return s.userRepo.EnableTOTP(ctx, userID)
}

// CompleteLogin finishes the 2FA login step: validates the temp token and
// the TOTP code, then issues the real session token.
func (s *TOTPService) CompleteLogin(ctx context.Context, req *models.TOTPVerifyRequest) (*models.AuthResponse, error) {
	tempClaims, err := s.jwtManager.ValidateTempToken(req.TempToken)
	if err != nil {
		return nil, errors.New("invalid or expired temporary token")
	}

	user, err := s.userRepo.Get(ctx, tempClaims.UserID)
	if err != nil {
		return nil, err
	}

	if user.TOTPSecret == "" || !user.TOTPEnabled {
		return nil, ErrNoTOTPSecret
	}

	if !totp.Validate(req.Code, user.TOTPSecret) {
		return nil, ErrInvalidTOTPCode
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
