package service

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/password"
)

// TokenAuthority issues and checks admin session tokens.
type TokenAuthority interface {
	Issue() (string, error)
	Verify(token string) bool
}

type AuthService struct {
	plain     string
	hash      string
	authority TokenAuthority
}

// NewAuthService accepts the admin password either in plain form or as a
// bcrypt hash. The hash wins when both are set.
func NewAuthService(plainPassword, passwordHash string, authority TokenAuthority) *AuthService {
	return &AuthService{plain: plainPassword, hash: strings.TrimSpace(passwordHash), authority: authority}
}

func (s *AuthService) Configured() bool {
	return s.plain != "" || s.hash != ""
}

func (s *AuthService) Login(ctx context.Context, given string) (string, error) {
	if !s.Configured() {
		logutil.GetLogger(ctx).Error("admin login attempted without a configured credential")
		return "", appErr.ErrNotConfigured
	}
	if given == "" || !s.matches(given) {
		logutil.GetLogger(ctx).Warn("admin login rejected")
		return "", appErr.ErrUnauthorized
	}
	token, err := s.authority.Issue()
	if err != nil {
		logutil.GetLogger(ctx).Error("issue admin session failed", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *AuthService) matches(given string) bool {
	if s.hash != "" {
		return password.Compare(s.hash, given) == nil
	}
	return password.Equal(s.plain, given)
}

func (s *AuthService) Authenticated(token string) bool {
	if token == "" {
		return false
	}
	return s.authority.Verify(token)
}
