package services

import (
	"context"
	"errors"
	"log"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/notify"
	"desynflow-backend/internal/repositories"
)

var allowedSignupRoles = map[string]bool{
	models.RoleClient:    true,
	models.RoleCSR:       true,
	models.RoleFinance:   true,
	models.RoleWarehouse: true,
	models.RoleInspector: true,
}

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	Notifier   notify.Provider
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, notifier notify.Provider) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		Notifier:   notifier,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return s.Repo.ListByRole(ctx, role)
}

// SetActive suspends or restores an account. Suspension takes effect on the
// user's next request because the auth middleware re-reads the row.
func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	return s.Repo.SetActive(ctx, id, active)
}

// Signup creates a new account. Self-registration is limited to the client
// role; staff roles are created by an admin.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest, byAdmin bool) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, badInputf("name, email, and password are required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleClient
	}
	if !allowedSignupRoles[role] {
		return nil, badInputf("invalid role")
	}
	if role != models.RoleClient && !byAdmin {
		return nil, badInputf("staff accounts must be created by an administrator")
	}

	existingUser, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, badInputf("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// Login authenticates a user. Accounts with 2FA enabled receive a temp
// token and must complete the second step before getting a real one.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account suspended")
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &models.AuthResponse{
			TempToken:   tempToken,
			Requires2FA: true,
		}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// RequestPasswordReset issues a reset token and sends it to the account
// email. Always succeeds from the caller's view so email enumeration is not
// possible.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		log.Printf("[Auth] Password reset requested for unknown email")
		return
	}

	token, err := s.JWTManager.GenerateResetToken(user.ID, user.PasswordHash)
	if err != nil {
		log.Printf("[Auth] Failed to generate reset token: %v", err)
		return
	}

	err = s.Notifier.Send(ctx, user.Email, "Password reset",
		"Use this token to reset your password within 1 hour: "+token)
	if err != nil {
		log.Printf("[Auth] Failed to deliver reset token: %v", err)
	}
}

// ConfirmPasswordReset validates the reset token and replaces the password.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, req *models.PasswordResetConfirm) error {
	if len(req.NewPassword) < 8 {
		return badInputf("password must be at least 8 characters")
	}

	claims, err := s.JWTManager.ValidatePurposeToken(req.Token, auth.PurposePasswordReset)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	// The token is bound to the password hash it was issued against, so a
	// completed reset (or any password change) kills outstanding tokens.
	user, err := s.Repo.Get(ctx, claims.SubjectID)
	if err != nil || !claims.BoundTo(user.PasswordHash) {
		return errors.New("invalid or expired reset token")
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.Repo.UpdatePassword(ctx, claims.SubjectID, hashedPassword)
}
