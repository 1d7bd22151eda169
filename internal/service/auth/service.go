package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/caretrack/pkg/auth"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/security"
)

const AdminSubject = "admin"

var (
	ErrInvalidPasskey = errors.New("invalid passkey")
	ErrSessionEnded   = errors.New("session is no longer active")
)

// Session is an issued admin session token
type Session struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	hasher      security.PasswordHasher
	passkeyHash string
	tokens      auth.JWTService
	sessions    SessionStore
	ttl         time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(hasher security.PasswordHasher, passkeyHash string, tokens auth.JWTService,
	sessions SessionStore, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		hasher:      hasher,
		passkeyHash: passkeyHash,
		tokens:      tokens,
		sessions:    sessions,
		ttl:         ttl,
		logger:      log,
		now:         time.Now,
	}
}

// Login checks the passkey and opens an admin session
func (s *Service) Login(ctx context.Context, passkey string) (*Session, error) {
	log := s.logger.WithContext(ctx)

	if passkey == "" {
		return nil, apperrors.Validation(map[string]string{"passkey": "Passkey is required"})
	}
	if err := s.hasher.Compare(s.passkeyHash, passkey); err != nil {
		log.Warn(err, "admin login rejected")
		return nil, apperrors.Unauthorized(ErrInvalidPasskey)
	}

	token, tokenID, err := s.tokens.Issue(AdminSubject, s.ttl)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.sessions.Save(ctx, tokenID, s.ttl); err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Info("admin session opened", "session_id", tokenID)
	return &Session{Token: token, ExpiresAt: s.now().Add(s.ttl)}, nil
}

// Validate accepts a signed admin token whose session is still live
func (s *Service) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if claims.Subject != AdminSubject {
		return nil, apperrors.Unauthorized(auth.ErrInvalidToken)
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !live {
		return nil, apperrors.Unauthorized(ErrSessionEnded)
	}
	return claims, nil
}

// Logout ends the session of token. An invalid token is already logged out.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return apperrors.Internal(err)
	}
	s.logger.WithContext(ctx).Info("admin session closed", "session_id", claims.ID)
	return nil
}
