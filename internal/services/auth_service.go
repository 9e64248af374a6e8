package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gorent/internal/config"
	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

var ErrInvalidCredentials = errors.New(utils.ErrInvalidCredentials)

type AuthService interface {
	Register(ctx context.Context, req *validators.RegisterRequest) (*models.User, *utils.TokenPair, error)
	Login(ctx context.Context, req *validators.LoginRequest) (*models.User, *utils.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, req *validators.ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *validators.UpdateProfileRequest) (*models.User, error)
	SetVerified(ctx context.Context, actor Actor, userID primitive.ObjectID, verified bool) (*models.User, error)
}

type authService struct {
	userRepo interfaces.UserRepository
	config   *config.Config
	logger   *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, cfg *config.Config, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		config:   cfg,
		logger:   log,
	}
}

func (s *authService) Register(ctx context.Context, req *validators.RegisterRequest) (*models.User, *utils.TokenPair, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, fmt.Errorf("%s", utils.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), utils.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.UserRoleCustomer
	if req.Role == string(models.UserRoleBusiness) {
		role = models.UserRoleBusiness
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hash),
		Phone:     req.Phone,
		Role:      role,
		Preferences: models.UserPreferences{
			Newsletter:    true,
			Notifications: true,
		},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.Security.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithUserID(user.ID).WithField("role", user.Role).Info("User registered")

	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, req *validators.LoginRequest) (*models.User, *utils.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.LogSecurityEvent("failed_login", "low", map[string]interface{}{
			"email": req.Email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.Security.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return user, tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.config.Security.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%s", utils.ErrInvalidToken)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s", utils.ErrInvalidToken)
	}

	// Re-read the user so a role change or deletion invalidates old tokens.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s", utils.ErrInvalidToken)
	}

	return utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.Security.JWTSecret)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, req *validators.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), utils.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": string(hash)}); err != nil {
		return err
	}

	s.logger.WithUserID(userID).Info("Password changed")
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *validators.UpdateProfileRequest) (*models.User, error) {
	updates := make(map[string]interface{})

	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Newsletter != nil {
		updates["preferences.newsletter"] = *req.Newsletter
	}
	if req.Notifications != nil {
		updates["preferences.notifications"] = *req.Notifications
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, userID)
}

// SetVerified flips the account verification flag. Verification is an
// admin review step, not something users do themselves.
func (s *authService) SetVerified(ctx context.Context, actor Actor, userID primitive.ObjectID, verified bool) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"is_verified": verified}); err != nil {
		return nil, err
	}

	s.logger.WithUserID(userID).WithField("verified", verified).Info("User verification updated")

	return s.userRepo.GetByID(ctx, userID)
}
