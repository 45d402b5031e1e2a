package chat

import (
	"context"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	keyringService = "calendargpt"
	userIDKey      = "user-id"
)

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/calendargpt/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("calendargpt-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SaveUserID stores the signed-in user's ID in the OS keyring so the CLI can
// resume the session on the next run.
func SaveUserID(userID string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:  userIDKey,
		Data: []byte(userID),
	})
	if err != nil {
		return fmt.Errorf("saving user id: %w", err)
	}
	return nil
}

// LoadUserID returns the stored user ID, or an error if none is saved.
func LoadUserID() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(userIDKey)
	if err != nil {
		return "", fmt.Errorf("loading user id: %w", err)
	}
	return string(item.Data), nil
}

// KeyringAuth implements Auth: sign-out goes to the server, local cleanup
// removes the stored user ID from the OS keyring.
type KeyringAuth struct {
	backend *HTTPBackend
}

func NewKeyringAuth(backend *HTTPBackend) *KeyringAuth {
	return &KeyringAuth{backend: backend}
}

func (a *KeyringAuth) SignOut(ctx context.Context) error {
	return a.backend.SignOut(ctx)
}

func (a *KeyringAuth) ClearLocal() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(userIDKey); err != nil {
		return fmt.Errorf("clearing user id: %w", err)
	}
	return nil
}
