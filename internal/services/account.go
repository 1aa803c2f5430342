package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace_back_end/internal/errs"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/utils"

	"github.com/rs/zerolog/log"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User
	Token string
}

type AccountService struct {
	users  repository.UserRepository
	tokens *utils.TokenService
}

func NewAccountService(users repository.UserRepository, tokens *utils.TokenService) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: please fill all fields", errs.ErrValidation)
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", errs.ErrValidation, utils.MaxPasswordBytes)
	}
	if !models.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: userType must be %q or %q", errs.ErrValidation, models.RoleBuyer, models.RoleSeller)
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, errs.ErrConflict
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Cart:         []models.CartItem{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errs.ErrConflict
		}
		return nil, err
	}

	log.Ctx(ctx).Info().Str("component", "Register").Str("user_id", user.ID.Hex()).Str("role", user.Role).Msg("user registered")

	return s.authResult(user)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please fill all fields", errs.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", errs.ErrNotFound)
		}
		return nil, err
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		log.Ctx(ctx).Warn().Str("component", "Login").Str("user_id", user.ID.Hex()).Msg("password mismatch")
		return nil, errs.ErrInvalidCredentials
	}

	return s.authResult(user)
}

func (s *AccountService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
