// Package service implements account registration, sign-in, and the JWT
// issuing used by the identity middleware.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/password"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/config"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/emailaddr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// CartMerger folds a guest cart into the user's cart on sign-in. The cart
// module provides the implementation.
type CartMerger interface {
	Merge(ctx context.Context, sessionID string, userID uuid.UUID) error
}

// Service implements account operations.
type Service struct {
	repo  repository.Repository
	carts CartMerger
	cfg   config.JWTConfig
	log   *logger.Logger
}

// New creates the users service.
func New(repo repository.Repository, carts CartMerger, cfg config.JWTConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, carts: carts, cfg: cfg, log: log}
}

// Register creates an account and signs the caller in. A guest session, if
// present, gets its cart merged into the new account.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest, sessionID string) (transport.TokenResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	user, err := s.repo.Create(ctx, emailaddr.Normalize(req.Email), hash)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	return s.signIn(ctx, user, sessionID)
}

// Login verifies credentials and signs the caller in, merging any guest
// cart carried by the session header.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest, sessionID string) (transport.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, emailaddr.Normalize(req.Email))
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}

	return s.signIn(ctx, user, sessionID)
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return userResponse(user), nil
}

// ChangePassword verifies the current password and replaces it. Accounts
// provisioned during quote conversion use this to retire their one-time
// password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req transport.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperr.Unauthorized("invalid credentials")
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.log.Info("password changed", "user_id", userID.String())
	return nil
}

// FindOrCreateTx resolves a quote requester to an account inside a
// caller-owned transaction. When the email is unknown a new account is
// created with a generated password; the plaintext is returned exactly
// once so staff can hand it to the customer.
func (s *Service) FindOrCreateTx(ctx context.Context, tx pgx.Tx, email string) (repository.User, string, error) {
	normalized := emailaddr.Normalize(email)

	user, err := s.repo.GetByEmailTx(ctx, tx, normalized)
	if err == nil {
		return user, "", nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.User{}, "", err
	}

	tempPassword, err := password.GenerateTemp()
	if err != nil {
		return repository.User{}, "", err
	}
	hash, err := password.Hash(tempPassword)
	if err != nil {
		return repository.User{}, "", err
	}

	user, err = s.repo.CreateTx(ctx, tx, normalized, hash)
	if err != nil {
		return repository.User{}, "", err
	}
	return user, tempPassword, nil
}

func (s *Service) signIn(ctx context.Context, user repository.User, sessionID string) (transport.TokenResponse, error) {
	token, err := s.signJWT(user)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	if sessionID != "" {
		// A failed merge should not block sign-in; the guest cart stays
		// behind and the next sign-in picks it up.
		if err := s.carts.Merge(ctx, sessionID, user.ID); err != nil {
			s.log.Warn("cart merge failed", "user_id", user.ID.String(), "error", err.Error())
		}
	}

	return transport.TokenResponse{AccessToken: token, User: userResponse(user)}, nil
}

func (s *Service) signJWT(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"staff": user.Staff,
		"exp":   now.Add(s.cfg.GetJWTAccessTTL()).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func userResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Staff:     user.Staff,
		CreatedAt: user.CreatedAt,
	}
}
