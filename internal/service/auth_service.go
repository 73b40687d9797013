package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-product-api/internal/model"
	"go-product-api/internal/token"
	"go-product-api/pkg/apierror"
)

const bcryptCost = 10

type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	List(ctx context.Context) ([]model.AccountInfo, error)
}

type AuthService struct {
	users  UserStore
	tokens *token.Service
}

func NewAuthService(users UserStore, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates the input before any store access, pre-checks
// username/email uniqueness as a fast path, hashes the password and
// persists the account. The store's UNIQUE constraints remain the authority
// for duplicates, so a lost pre-check race still surfaces cleanly.
func (s *AuthService) Register(ctx context.Context, input model.RegisterRequest) (model.AccountInfo, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Fullname = strings.TrimSpace(input.Fullname)
	input.Email = strings.TrimSpace(input.Email)
	input.Tel = strings.TrimSpace(input.Tel)

	if field, ok := missingField(input); ok {
		return model.AccountInfo{}, apierror.New("VALIDATION_ERROR", field+" is required", field, http.StatusBadRequest)
	}

	if exists, err := s.users.ExistsByUsername(ctx, input.Username); err != nil {
		return model.AccountInfo{}, err
	} else if exists {
		return model.AccountInfo{}, model.ErrDuplicateUsername
	}

	if exists, err := s.users.ExistsByEmail(ctx, input.Email); err != nil {
		return model.AccountInfo{}, err
	} else if exists {
		return model.AccountInfo{}, model.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return model.AccountInfo{}, err
	}

	user := model.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Fullname:     input.Fullname,
		Email:        input.Email,
		Tel:          input.Tel,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return model.AccountInfo{}, err
	}

	return user.Info(), nil
}

// Login fails with the same ErrInvalidCredentials for an unknown username
// and for a wrong password, so responses cannot be used to enumerate
// accounts. The hash comparison is bcrypt's constant-time primitive.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.LoginResult{}, apierror.New("VALIDATION_ERROR", "username and password are required", "", http.StatusBadRequest)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.LoginResult{}, model.ErrInvalidCredentials
		}
		return model.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	return model.LoginResult{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user.Info(),
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (model.AccountInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AccountInfo{}, err
	}
	return user.Info(), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.AccountInfo, error) {
	return s.users.List(ctx)
}

func missingField(input model.RegisterRequest) (string, bool) {
	switch {
	case input.Username == "":
		return "username", true
	case input.Password == "":
		return "password", true
	case input.Fullname == "":
		return "fullname", true
	case input.Email == "":
		return "email", true
	case input.Tel == "":
		return "tel", true
	}
	return "", false
}
