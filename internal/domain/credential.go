package domain

import "time"

// Credential is one stored Google OAuth token set. One row per user;
// a fresh sign-in replaces the row wholesale (last write wins).
type Credential struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ClientID     string
	Scopes       []string
	Expiry       *time.Time
	CreatedAt    time.Time
}

// Expired reports whether the access token needs a refresh.
func (c *Credential) Expired(now time.Time) bool {
	return c.Expiry != nil && !c.Expiry.After(now)
}
