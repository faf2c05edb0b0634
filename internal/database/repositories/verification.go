package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"aashub/internal/system"
)

const (
	codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// VerificationRepository stores email verification codes.
type VerificationRepository struct {
	DB *sql.DB
}

// GenerateVerificationCode returns a random alphanumeric code.
func GenerateVerificationCode(length int) (string, error) {
	base := big.NewInt(int64(len(codeCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		out[i] = codeCharset[n.Int64()]
	}
	return string(out), nil
}

// CreateVerification issues a fresh code for email, replacing any earlier
// one and resetting the verified flag.
func (v *VerificationRepository) CreateVerification(ctx context.Context, email string) (string, error) {
	code, err := GenerateVerificationCode(codeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	tx, err := v.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM Verifications WHERE email = ?", email); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO Verifications (email, verification_code, verified) VALUES (?, ?, ?)",
		email, code, false); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify marks email verified when code matches a pending verification.
// A wrong or already used code yields ErrInvalidCode; anything else is a
// system failure.
func (v *VerificationRepository) Verify(ctx context.Context, email, code string) error {
	system.Logger.Debug("verifying email", "email", email)
	res, err := v.DB.ExecContext(ctx,
		"UPDATE Verifications SET verified = ? WHERE email = ? AND verification_code = ? AND verified = ?",
		true, email, code, false)
	if err != nil {
		return fmt.Errorf("verify %s: %w", email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify %s: %w", email, err)
	}
	if n == 0 {
		return ErrInvalidCode
	}
	return nil
}

// IsVerified reports whether email completed verification. An email
// without a verification record is not verified.
func (v *VerificationRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	var verified bool
	err := v.DB.QueryRowContext(ctx, "SELECT verified FROM Verifications WHERE email = ?", email).Scan(&verified)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return verified, nil
}
