package authservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/pkg/jwtauth"
	"github.com/Leopold1975/tutorials_control/internal/pkg/validation"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

var (
	ErrNotAllowed         = errors.New("only admins can create admin")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyHash is compared against on logins for unknown users so that they
// cost the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("dummy password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	return hash
})

type Repository interface {
	CreateUser(context.Context, models.User) (int, error)
	GetUser(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err //nolint:wrapcheck
	}

	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if req.Role == models.RoleAdmin { // только админы могут создавать админов
		isAdmin, err := as.Auth(req.Token)
		if err != nil || !isAdmin {
			return "", ErrNotAllowed
		}
	}

	u, err := as.createUser(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		return "", err
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that name
// already exists.
func (as *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := as.createUser(ctx, username, password, models.RoleAdmin)
	if err != nil && !errors.Is(err, userrepo.ErrAlreadyExists) {
		return err
	}

	return nil
}

func (as *AuthService) Auth(token string) (bool, error) {
	role, err := jwtauth.ValidateTokenRole(token, as.cfg.Secret)
	if err != nil {
		return false, fmt.Errorf("validate token role error: %w", err)
	}

	return role == models.RoleAdmin, nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash(), []byte(password)) //nolint:errcheck

			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) createUser(ctx context.Context, username, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: password: must be at most 72 bytes", validation.ErrInvalid)
		}

		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	u.ID, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	return u, nil
}
