package repositories

import (
	"context"
	b64 "encoding/base64"
	"fmt"
	"html"
	"strings"

	"aashub/internal/mail"
)

// EmailVerificationRepository issues verification codes and mails the
// verification link to the user.
type EmailVerificationRepository struct {
	VerificationRepository *VerificationRepository
	Sender                 mail.Sender
	// PublicURL is the externally reachable base URL of the server.
	PublicURL string
}

// VerificationLink builds the link checked by the verify endpoint. Email
// and code are base64 raw-URL encoded.
func VerificationLink(publicURL, email, code string) string {
	return strings.TrimRight(publicURL, "/") + "/api/v1/verify?email=" +
		b64.RawURLEncoding.EncodeToString([]byte(email)) +
		"&code=" + b64.RawURLEncoding.EncodeToString([]byte(code))
}

func (e *EmailVerificationRepository) CreateVerification(ctx context.Context, email string) (string, error) {
	code, err := e.VerificationRepository.CreateVerification(ctx, email)
	if err != nil {
		return "", err
	}
	link := VerificationLink(e.PublicURL, email, code)
	body := fmt.Sprintf("<a href='%s'>Click here to verify your email</a>", html.EscapeString(link))
	if err := e.Sender.Send(ctx, email, "Verification Code", body); err != nil {
		return "", fmt.Errorf("send verification mail: %w", err)
	}
	return code, nil
}

func (e *EmailVerificationRepository) Verify(ctx context.Context, email, code string) error {
	return e.VerificationRepository.Verify(ctx, email, code)
}

func (e *EmailVerificationRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	return e.VerificationRepository.IsVerified(ctx, email)
}
