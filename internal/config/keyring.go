package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

// KeyringService is the keyring service name API keys are stored under
const KeyringService = "moviesearch"

// KeyStore stores API keys per application id
type KeyStore interface {
	Get(appID string) (string, error)
	Set(appID, apiKey string) error
	Delete(appID string) error
}

// ErrKeyNotFound is returned when no key is stored for an application id
var ErrKeyNotFound = errors.New("no api key stored")

// systemKeyStore uses the OS keyring
type systemKeyStore struct{}

// NewKeyStore returns a KeyStore backed by the OS keyring
func NewKeyStore() KeyStore {
	return systemKeyStore{}
}

func (systemKeyStore) Get(appID string) (string, error) {
	secret, err := keyring.Get(KeyringService, appID)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return secret, nil
}

func (systemKeyStore) Set(appID, apiKey string) error {
	if err := keyring.Set(KeyringService, appID, apiKey); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (systemKeyStore) Delete(appID string) error {
	err := keyring.Delete(KeyringService, appID)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

// ResolveAPIKey fills an empty APIKey from the key store.
// A missing entry is not an error; Validate reports the empty key. A keyring
// that cannot be reached is treated the same way and logged.
func ResolveAPIKey(cfg *Config, store KeyStore, logger *zap.Logger) {
	if cfg.APIKey != "" || cfg.AppID == "" || store == nil {
		return
	}
	key, err := store.Get(cfg.AppID)
	if errors.Is(err, ErrKeyNotFound) {
		return
	}
	if err != nil {
		logger.Warn("keyring unavailable, continuing without a stored key",
			zap.String("app_id", cfg.AppID), zap.Error(err))
		return
	}
	cfg.APIKey = key
}
