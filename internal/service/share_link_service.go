package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/model"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

const (
	DefaultShareIDBytes      = 16
	DefaultCreateAttempts    = 3
	maxShareExpiryDays       = 3650
	maxShareSecretCodeLength = 128
)

type ShareLinkStore interface {
	Create(ctx context.Context, link *model.ShareLink) error
	GetByID(ctx context.Context, id string) (*model.ShareLink, error)
	ListByTarget(ctx context.Context, targetURL string) ([]model.ShareLink, error)
	Delete(ctx context.Context, id string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RedeemStatus int

const (
	RedeemNotFound RedeemStatus = iota
	RedeemExpired
	RedeemSecretRequired
	RedeemSecretMismatch
	RedeemOK
)

var redeemStatusNames = map[RedeemStatus]string{
	RedeemNotFound:       "not_found",
	RedeemExpired:        "expired",
	RedeemSecretRequired: "secret_required",
	RedeemSecretMismatch: "secret_mismatch",
	RedeemOK:             "ok",
}

func (s RedeemStatus) String() string {
	if name, ok := redeemStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// RedeemResult is the outcome of presenting a share id. TargetURL is only
// set when Status is RedeemOK.
type RedeemResult struct {
	Status    RedeemStatus
	TargetURL string
}

func (r RedeemResult) OK() bool {
	return r.Status == RedeemOK
}

// Recoverable reports whether the caller may retry with a different secret.
func (r RedeemResult) Recoverable() bool {
	return r.Status == RedeemSecretRequired || r.Status == RedeemSecretMismatch
}

type ShareLinkOptions struct {
	ExpiryDays int
	SecretCode string
}

type ShareLinkService struct {
	links       ShareLinkStore
	idBytes     int
	maxAttempts int
	now         func() time.Time
	genID       func(n int) (string, error)
}

type ShareLinkServiceOption func(*ShareLinkService)

func WithShareIDBytes(n int) ShareLinkServiceOption {
	return func(s *ShareLinkService) {
		if n > 0 {
			s.idBytes = n
		}
	}
}

func WithCreateAttempts(n int) ShareLinkServiceOption {
	return func(s *ShareLinkService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithShareClock(now func() time.Time) ShareLinkServiceOption {
	return func(s *ShareLinkService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewShareLinkService(links ShareLinkStore, opts ...ShareLinkServiceOption) *ShareLinkService {
	s := &ShareLinkService{
		links:       links,
		idBytes:     DefaultShareIDBytes,
		maxAttempts: DefaultCreateAttempts,
		now:         time.Now,
		genID:       newShareID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ShareLinkService) Create(ctx context.Context, targetURL string, opts ShareLinkOptions) (*model.ShareLink, error) {
	targetURL = strings.TrimSpace(targetURL)
	if !validTargetURL(targetURL) {
		return nil, fmt.Errorf("target url: %w", appErr.ErrInvalid)
	}
	if opts.ExpiryDays < 0 || opts.ExpiryDays > maxShareExpiryDays {
		return nil, fmt.Errorf("expiry days: %w", appErr.ErrInvalid)
	}
	secret := strings.TrimSpace(opts.SecretCode)
	if len(secret) > maxShareSecretCodeLength {
		return nil, fmt.Errorf("secret code: %w", appErr.ErrInvalid)
	}
	now := s.now()
	link := &model.ShareLink{
		TargetURL:  targetURL,
		SecretCode: secret,
		CreatedAt:  now.UTC(),
	}
	if opts.ExpiryDays > 0 {
		exp := now.Add(time.Duration(opts.ExpiryDays) * 24 * time.Hour).UTC()
		link.ExpiresAt = &exp
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		id, err := s.genID(s.idBytes)
		if err != nil {
			return nil, fmt.Errorf("generate share id: %w", err)
		}
		link.ID = id
		err = s.links.Create(ctx, link)
		if err == nil {
			logutil.GetLogger(ctx).Info("share link created",
				zap.String("id", link.ID),
				zap.Bool("protected", link.Protected()),
				zap.Int("expiry_days", opts.ExpiryDays))
			return link, nil
		}
		if !errors.Is(err, appErr.ErrConflict) {
			return nil, fmt.Errorf("store share link: %w", err)
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("share id collision, regenerating", zap.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("store share link after %d attempts: %w", s.maxAttempts, lastErr)
}

// Validate resolves id to its target when the expiry and secret gates pass.
// Lookup failures are reported as RedeemNotFound.
func (s *ShareLinkService) Validate(ctx context.Context, id, secretCode string) RedeemResult {
	id = strings.TrimSpace(id)
	if id == "" {
		return RedeemResult{Status: RedeemNotFound}
	}
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, appErr.ErrNotFound) {
			logutil.GetLogger(ctx).Error("load share link failed", zap.String("id", id), zap.Error(err))
		}
		return RedeemResult{Status: RedeemNotFound}
	}
	if link.ExpiredAt(s.now()) {
		return RedeemResult{Status: RedeemExpired}
	}
	if link.Protected() {
		code := strings.TrimSpace(secretCode)
		if code == "" {
			return RedeemResult{Status: RedeemSecretRequired}
		}
		if code != link.SecretCode {
			return RedeemResult{Status: RedeemSecretMismatch}
		}
	}
	return RedeemResult{Status: RedeemOK, TargetURL: link.TargetURL}
}

func (s *ShareLinkService) Get(ctx context.Context, id string) (*model.ShareLink, error) {
	return s.links.GetByID(ctx, id)
}

func (s *ShareLinkService) ListByTarget(ctx context.Context, targetURL string) ([]model.ShareLink, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, appErr.ErrInvalid
	}
	return s.links.ListByTarget(ctx, targetURL)
}

func (s *ShareLinkService) Delete(ctx context.Context, id string) error {
	return s.links.Delete(ctx, id)
}

// PurgeExpired removes links that expired before the given instant.
func (s *ShareLinkService) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return s.links.DeleteExpiredBefore(ctx, before)
}

func validTargetURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return strings.HasPrefix(raw, "/")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
