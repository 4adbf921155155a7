package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dogdiet/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized indicates a missing or rejected bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// IDTokenVerifier verifies OIDC ID tokens. *oidc.IDTokenVerifier implements it.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// AuthService authenticates HTTP API callers by a static API token, an OIDC
// ID token, or both.
type AuthService struct {
	tokenHash []byte
	verifier  IDTokenVerifier
}

// NewAuthService creates an AuthService. tokenHash is a bcrypt hash produced
// by HashToken; verifier may be nil.
func NewAuthService(tokenHash string, verifier IDTokenVerifier) *AuthService {
	s := &AuthService{verifier: verifier}
	if tokenHash != "" {
		s.tokenHash = []byte(tokenHash)
	}
	return s
}

// Enabled reports whether any authentication method is configured.
func (s *AuthService) Enabled() bool {
	return s != nil && (s.tokenHash != nil || s.verifier != nil)
}

// Authenticate checks a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*domain.Principal, error) {
	if bearer == "" {
		return nil, ErrUnauthorized
	}
	if s.tokenHash != nil {
		if err := bcrypt.CompareHashAndPassword(s.tokenHash, []byte(bearer)); err == nil {
			return &domain.Principal{Subject: "api-token", Method: domain.AuthMethodToken}, nil
		}
	}
	// API tokens are opaque; only JWT-shaped values go to the verifier.
	if s.verifier != nil && strings.Count(bearer, ".") == 2 {
		idToken, err := s.verifier.Verify(ctx, bearer)
		if err != nil {
			return nil, ErrUnauthorized
		}
		var claims struct {
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, fmt.Errorf("parse id token claims: %w", err)
		}
		return &domain.Principal{Subject: idToken.Subject, Email: claims.Email, Method: domain.AuthMethodOIDC}, nil
	}
	return nil, ErrUnauthorized
}

// HashToken returns the bcrypt hash to configure for an API token.
func HashToken(token string) (string, error) {
	if len(token) < 16 {
		return "", errors.New("token must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
