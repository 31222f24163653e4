package adapthttp

import (
	"context"
	"fmt"

	"biometrics/internal/app"
	"biometrics/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier validates ID tokens issued for the configured client.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ app.TokenVerifier = (*OIDCVerifier)(nil)

// NewOIDCVerifier discovers the issuer's keys and returns a verifier for
// tokens whose audience is clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &OIDCVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewOIDCVerifierFrom wraps an already configured token verifier.
func NewOIDCVerifierFrom(v *oidc.IDTokenVerifier) *OIDCVerifier {
	return &OIDCVerifier{verifier: v}
}

// Verify checks the token and maps its claims to a Principal.
func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (*domain.Principal, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("oidc claims: %w", err)
	}
	return &domain.Principal{Subject: idToken.Subject, Email: claims.Email, Method: domain.AuthOIDC}, nil
}
