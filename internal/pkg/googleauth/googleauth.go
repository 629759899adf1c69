package googleauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrNotConfigured = errors.New("google sign-in is not configured")

// Verifier checks Google ID tokens against the configured OAuth client ID.
type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// VerifyEmail validates the ID token with Google's public keys and returns
// the email it asserts.
func (v *Verifier) VerifyEmail(ctx context.Context, token string) (string, error) {
	if v.clientID == "" {
		return "", ErrNotConfigured
	}

	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("verify google token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", errors.New("google token has no email claim")
	}
	return email, nil
}
