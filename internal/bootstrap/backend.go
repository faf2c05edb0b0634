package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"aashub/internal/config"
	"aashub/internal/database"
	"aashub/internal/database/repositories"
	"aashub/internal/mail"
	"aashub/internal/system"
)

// Backend is the account API's storage and services.
type Backend struct {
	DB           *sql.DB
	Users        *repositories.UserRepository
	Verification *repositories.EmailVerificationRepository
}

// OpenBackend connects the database and wires the repositories.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	secret, err := cfg.Auth.LoadSecret()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.Auth.TTL()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	ver := &repositories.EmailVerificationRepository{
		VerificationRepository: &repositories.VerificationRepository{DB: db},
		Sender:                 NewSender(cfg.Mail),
		PublicURL:              cfg.Server.PublicURL,
	}
	users := &repositories.UserRepository{
		DB:           db,
		Verification: ver,
		Secret:       secret,
		TokenTTL:     ttl,
		HashCost:     cfg.Auth.BcryptCost,
	}
	users.EnableVerification(cfg.Verification.Enabled)
	system.Logger.Info("database ready", "driver", cfg.Database.Driver, "verification", cfg.Verification.Enabled)
	return &Backend{DB: db, Users: users, Verification: ver}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	if b == nil || b.DB == nil {
		return nil
	}
	if err := b.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// NewSender returns an SMTP sender, or a logging one when no SMTP host is
// configured.
func NewSender(c config.MailConfig) mail.Sender {
	if c.SMTPHost == "" {
		return mail.LogSender{}
	}
	return &mail.SMTPSender{
		From:               c.Address,
		Password:           c.Password,
		Host:               c.SMTPHost,
		Port:               c.SMTPPort,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}
