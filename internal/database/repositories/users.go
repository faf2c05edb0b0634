package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aashub/internal/auth"
	"aashub/internal/system"
)

// Verifier is the verification side of the account flow.
type Verifier interface {
	CreateVerification(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
	IsVerified(ctx context.Context, email string) (bool, error)
}

// User is a row of the Users table.
type User struct {
	ID       string
	Username string
	Email    string
	Password string
}

// UserRepository registers and logs in users.
type UserRepository struct {
	DB           *sql.DB
	Verification Verifier
	// Secret signs session tokens.
	Secret   string
	TokenTTL time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int

	verificationEnabled atomic.Bool
}

// EnableVerification turns the email verification gate on or off. It is
// safe to call while requests are served.
func (repo *UserRepository) EnableVerification(on bool) { repo.verificationEnabled.Store(on) }

// VerificationEnabled reports whether the verification gate is on.
func (repo *UserRepository) VerificationEnabled() bool { return repo.verificationEnabled.Load() }

// HashPassword hashes password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RegisterUser stores a new user and, when verification is enabled, issues
// a verification for the email.
func (repo *UserRepository) RegisterUser(ctx context.Context, username, email, password string) error {
	hashed, err := HashPassword(password, repo.HashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	id := uuid.New().String()
	_, err = repo.DB.ExecContext(ctx,
		"INSERT INTO Users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		id, username, email, hashed)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailUsernameExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if repo.VerificationEnabled() {
		if _, err := repo.Verification.CreateVerification(ctx, email); err != nil {
			system.Logger.Error("create verification failed", "email", email, "err", err)
			// the user could never receive a code, so registering again must be possible
			if derr := repo.deleteUser(context.WithoutCancel(ctx), id); derr != nil {
				return errors.Join(err, derr)
			}
			return err
		}
	}
	return nil
}

func (repo *UserRepository) deleteUser(ctx context.Context, id string) error {
	if _, err := repo.DB.ExecContext(ctx, "DELETE FROM Users WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove user %s: %w", id, err)
	}
	return nil
}

// LoginUser checks the credentials of the user whose username or email is
// identifier and returns a signed session token.
func (repo *UserRepository) LoginUser(ctx context.Context, identifier, password string) (string, error) {
	var u User
	err := repo.DB.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash FROM Users WHERE username = ? OR email = ?",
		identifier, identifier).Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", ErrUserNotFound
	}
	if repo.VerificationEnabled() {
		ok, err := repo.Verification.IsVerified(ctx, u.Email)
		if err != nil {
			return "", fmt.Errorf("check verification: %w", err)
		}
		if !ok {
			return "", ErrUserNotVerified
		}
	}
	token, err := auth.GenerateJWT(u.ID, repo.Secret, repo.TokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
