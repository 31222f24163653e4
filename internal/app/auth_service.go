package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"biometrics/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided API key or token was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoCredentials indicates that the request carried no credentials at all.
	ErrNoCredentials = errors.New("no credentials")
)

// TokenVerifier validates a bearer token, e.g. an OIDC ID token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*domain.Principal, error)
}

// AuthService authenticates API callers by API key or bearer token.
type AuthService struct {
	apiKeyHash []byte
	tokens     TokenVerifier
}

// NewAuthService creates an authentication service. An empty hash disables
// API keys; a nil verifier disables bearer tokens.
func NewAuthService(apiKeyHash string, tokens TokenVerifier) *AuthService {
	s := &AuthService{tokens: tokens}
	if apiKeyHash != "" {
		s.apiKeyHash = []byte(apiKeyHash)
	}
	return s
}

// Enabled reports whether any authentication method is configured.
func (s *AuthService) Enabled() bool {
	return s != nil && (s.apiKeyHash != nil || s.tokens != nil)
}

// Authenticate checks an API key first, then a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, apiKey, bearer string) (*domain.Principal, error) {
	switch {
	case apiKey != "":
		return s.AuthenticateAPIKey(apiKey)
	case bearer != "":
		return s.AuthenticateBearer(ctx, bearer)
	}
	return nil, ErrNoCredentials
}

// AuthenticateAPIKey compares key against the configured bcrypt hash.
func (s *AuthService) AuthenticateAPIKey(key string) (*domain.Principal, error) {
	if s.apiKeyHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(key)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &domain.Principal{Subject: keyID(key), Method: domain.AuthAPIKey}, nil
}

// AuthenticateBearer validates raw with the configured token verifier.
func (s *AuthService) AuthenticateBearer(ctx context.Context, raw string) (*domain.Principal, error) {
	if s.tokens == nil {
		return nil, ErrInvalidCredentials
	}
	p, err := s.tokens.Verify(ctx, raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredentials, err)
	}
	return p, nil
}

// HashAPIKey returns the bcrypt hash to configure as API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < 16 {
		return "", errors.New("api key must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// keyID is a short non-reversible label for logging which key was used.
func keyID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "key-" + hex.EncodeToString(sum[:4])
}
