package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CredentialRepo persists one Google OAuth token set per user.
type CredentialRepo struct {
	db *pgxpool.Pool
}

func NewCredentialRepo(db *pgxpool.Pool) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) Has(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM google_credentials WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check credentials: %w", err)
	}
	return exists, nil
}

func (r *CredentialRepo) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	cred := &domain.Credential{}
	err := r.db.QueryRow(ctx,
		`SELECT user_id, access_token, refresh_token, client_id, scopes, expiry, created_at
		 FROM google_credentials WHERE user_id = $1`,
		userID,
	).Scan(&cred.UserID, &cred.AccessToken, &cred.RefreshToken, &cred.ClientID,
		&cred.Scopes, &cred.Expiry, &cred.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNoCredentials
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return cred, nil
}

// Replace drops any existing row for the user and inserts the new one.
// A fresh sign-in always wins; stored tokens are never merged.
func (r *CredentialRepo) Replace(ctx context.Context, cred *domain.Credential) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM google_credentials WHERE user_id = $1`, cred.UserID); err != nil {
		return fmt.Errorf("delete old credentials: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO google_credentials (user_id, access_token, refresh_token, client_id, scopes, expiry)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.ClientID, cred.Scopes, cred.Expiry,
	); err != nil {
		return fmt.Errorf("insert credentials: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *CredentialRepo) UpdateAccessToken(ctx context.Context, userID, accessToken string, expiry *time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE google_credentials SET access_token = $2, expiry = $3 WHERE user_id = $1`,
		userID, accessToken, expiry,
	)
	if err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	return nil
}
