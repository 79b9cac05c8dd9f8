// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserInfo struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Subscription string
}

// NewAccount is a validated signup with the password already hashed.
type NewAccount struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account NewAccount) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type TokenIssuer interface {
	CreateAccessToken(claims SessionClaims) (*IssuedToken, error)
	ParseAccessToken(token string) (*middleware.Principal, error)
}

type Service struct {
	tokens    TokenIssuer
	users     UserProvider
	blacklist Blacklist
	logger    *slog.Logger
}

func NewService(
	tokens TokenIssuer,
	users UserProvider,
	blacklist Blacklist,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tokens:    tokens,
		users:     users,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	if exists {
		return core.ConflictError("An account with this email already exists")
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.Create(ctx, NewAccount{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return core.ConflictError("An account with this email already exists")
		}
		return fmt.Errorf("signup: %w", err)
	}

	return nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	issued, err := s.tokens.CreateAccessToken(SessionClaims{
		UserID:       user.ID,
		Role:         user.Role,
		Subscription: user.Subscription,
	})
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &SessionResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier. Revoked tokens are
// rejected even while their signature is still valid.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	principal, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return principal, nil
}

func (s *Service) Logout(ctx context.Context, p middleware.Principal) error {
	return s.blacklist.Revoke(ctx, p.TokenID, time.Until(p.ExpiresAt))
}

func (s *Service) CurrentSession(
	ctx context.Context,
	p middleware.Principal,
) (*CurrentSessionResponse, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return &CurrentSessionResponse{
		ExpiresAt: p.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(strings.TrimSpace(req.CurrentPassword), user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.ValidationError("Current password is incorrect")
	}

	newHash, err := core.HashPassword(strings.TrimSpace(req.NewPassword))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, newHash)
}

var _ middleware.TokenVerifier = (*Service)(nil)
