package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Credentials is the persisted OAuth2 token pair for the single
// connected athlete. ExpiresAt is epoch seconds and is the
// authoritative source of truth for token validity.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	AthleteID    int64
}

// SaveCredentials replaces the stored token pair wholesale.
// A refresh may rotate the refresh token, so the pair is always
// written in full and the old pair is discarded.
func (db *DB) SaveCredentials(c *Credentials) error {
	_, err := db.conn.Exec(`
		INSERT INTO credentials (id, access_token, refresh_token, expires_at, athlete_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			athlete_id = excluded.athlete_id,
			updated_at = excluded.updated_at
	`, c.AccessToken, c.RefreshToken, c.ExpiresAt, c.AthleteID, time.Now().Unix())

	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// GetCredentials returns the stored token pair, or nil if the one-time
// interactive authorization has never been completed.
func (db *DB) GetCredentials() (*Credentials, error) {
	var c Credentials
	err := db.conn.QueryRow(`
		SELECT access_token, refresh_token, expires_at, COALESCE(athlete_id, 0)
		FROM credentials WHERE id = 1
	`).Scan(&c.AccessToken, &c.RefreshToken, &c.ExpiresAt, &c.AthleteID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &c, nil
}
