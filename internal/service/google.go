package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/calendargpt/calendargpt/internal/repository"
)

// GoogleAuth resolves a usable access token for a user, refreshing and
// persisting expired tokens on the way.
type GoogleAuth struct {
	creds        *repository.CredentialRepo
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
}

func NewGoogleAuth(creds *repository.CredentialRepo, cfg *config.Config) *GoogleAuth {
	return &GoogleAuth{
		creds:        creds,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tokenURL:     config.TokenURL,
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
	}
}

// AccessToken returns a valid access token for the user. The error text for
// a missing row contains "No Google credentials found"; the client keys its
// re-authentication prompt on that substring.
func (a *GoogleAuth) AccessToken(ctx context.Context, userID string) (string, error) {
	cred, err := a.creds.Get(ctx, userID)
	if err != nil {
		if err == domain.ErrNoCredentials {
			return "", fmt.Errorf("No Google credentials found for user %s", userID)
		}
		return "", fmt.Errorf("get google credentials: %w", err)
	}

	if !cred.Expired(time.Now()) || cred.RefreshToken == "" {
		return cred.AccessToken, nil
	}

	token, expiry, err := a.refresh(ctx, cred)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := a.creds.UpdateAccessToken(ctx, userID, token, expiry); err != nil {
		return "", err
	}
	return token, nil
}

func (a *GoogleAuth) refresh(ctx context.Context, cred *domain.Credential) (string, *time.Time, error) {
	clientID := cred.ClientID
	if clientID == "" {
		clientID = a.clientID
	}

	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {a.clientSecret},
		"refresh_token": {cred.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", nil, fmt.Errorf("parse token response: %w", err)
	}

	var expiry *time.Time
	if result.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
		expiry = &t
	}
	return result.AccessToken, expiry, nil
}

// doJSON issues an authenticated Google API request and decodes the response
// into out (when non-nil).
func doJSON(ctx context.Context, client *http.Client, token, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("google api request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google api returned %d: %s", resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
