package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
	"github.com/bioweb/backend/pkg/auth"
)

// TokenIssuer signs admin tokens. *auth.TokenManager implements it.
type TokenIssuer interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
}

// AuthService は管理者認証のビジネスロジックのインターフェース
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*model.LoginResult, error)
	// VerifyLegacy checks the legacy header credentials and returns the admin id.
	VerifyLegacy(ctx context.Context, username, password string) (int64, error)
	ChangePassword(ctx context.Context, username string, in ChangePasswordInput) error
}

type authServiceImpl struct {
	admins repository.AdminUserRepository
	tokens TokenIssuer
	now    func() time.Time
}

// NewAuthService は AuthService を生成する（DI: AdminUserRepository と TokenIssuer を注入）
func NewAuthService(admins repository.AdminUserRepository, tokens TokenIssuer) AuthService {
	return &authServiceImpl{admins: admins, tokens: tokens, now: time.Now}
}

var _ auth.LegacyVerifier = (*authServiceImpl)(nil)

// authenticate は未登録ユーザーとパスワード不一致を区別せず ErrInvalidCredentials を返す
func (s *authServiceImpl) authenticate(ctx context.Context, username, password string) (*model.AdminUser, error) {
	u, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *authServiceImpl) Login(ctx context.Context, in LoginInput) (*model.LoginResult, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	u, err := s.authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.admins.UpdateLastLogin(ctx, u.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	slog.Info("admin logged in", "admin_id", u.ID, "username", u.Username)
	return &model.LoginResult{Token: token, ExpiresAt: expiresAt, Username: u.Username}, nil
}

func (s *authServiceImpl) VerifyLegacy(ctx context.Context, username, password string) (int64, error) {
	u, err := s.authenticate(ctx, username, password)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// ChangePassword は現在のパスワードを確認し、bcrypt で再ハッシュして保存する
func (s *authServiceImpl) ChangePassword(ctx context.Context, username string, in ChangePasswordInput) error {
	if err := validation.ValidateStruct(&in); err != nil {
		return err
	}
	u, err := s.authenticate(ctx, username, in.CurrentPassword)
	if err != nil {
		return err
	}
	hash, err := auth.HashPasswordStrong(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	slog.Info("admin password changed", "admin_id", u.ID)
	return nil
}
