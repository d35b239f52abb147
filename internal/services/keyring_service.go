package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/99designs/keyring"
	"go.uber.org/zap"

	"wingman/internal/models"
)

const (
	serviceName       = "wingman"
	providerKeyPrefix = "provider:"
	tokenSecretKey    = "token-secret"
	tokenSecretBytes  = 48
)

var ErrKeyringUnavailable = errors.New("keyring unavailable")

// KeyringConfig selects where secrets live. FileDir and FilePassword are
// only used when the OS keychain is unavailable.
type KeyringConfig struct {
	FileDir      string
	FilePassword string
}

// OpenKeyring opens the platform keychain, falling back to an encrypted
// file keyring when FileDir is set.
func OpenKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	kc := keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  serviceName,
		KWalletAppID:             serviceName,
		KWalletFolder:            serviceName,
		WinCredPrefix:            serviceName,
	}
	if cfg.FileDir != "" {
		kc.FileDir = cfg.FileDir
		kc.FilePasswordFunc = keyring.FixedStringPrompt(cfg.FilePassword)
	} else {
		for _, b := range keyring.AvailableBackends() {
			if b != keyring.FileBackend {
				kc.AllowedBackends = append(kc.AllowedBackends, b)
			}
		}
		if len(kc.AllowedBackends) == 0 {
			return nil, ErrKeyringUnavailable
		}
	}
	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return ring, nil
}

type KeyringService struct {
	ring   keyring.Keyring
	logger *zap.Logger
}

func NewKeyringService(ring keyring.Keyring, logger *zap.Logger) *KeyringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyringService{ring: ring, logger: logger}
}

func (s *KeyringService) available() error {
	if s == nil || s.ring == nil {
		return ErrKeyringUnavailable
	}
	return nil
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if err := s.available(); err != nil {
		return err
	}
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errors.New("provider is required")
	}
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	return s.ring.Set(keyring.Item{
		Key:         providerKeyPrefix + provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by Wingman",
	})
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if err := s.available(); err != nil {
		return "", err
	}
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(providerKeyPrefix + provider)
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if err := s.available(); err != nil {
		return err
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return s.ring.Remove(providerKeyPrefix + provider)
}

// ListApiKeys describes every stored provider key without exposing it.
func (s *KeyringService) ListApiKeys() ([]models.ApiKeyInfo, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	infos := make([]models.ApiKeyInfo, 0, len(keys))
	for _, key := range keys {
		provider, ok := strings.CutPrefix(key, providerKeyPrefix)
		if !ok {
			continue
		}
		infos = append(infos, models.ApiKeyInfo{
			Provider:    provider,
			Label:       provider + " API key",
			Description: "API key for " + provider + " used by Wingman",
		})
	}
	return infos, nil
}

// TokenSecret returns the stored token signing secret, generating and
// saving one on first use.
func (s *KeyringService) TokenSecret() ([]byte, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	item, err := s.ring.Get(tokenSecretKey)
	if err == nil && len(item.Data) >= 32 {
		return item.Data, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("read token secret: %w", err)
	}

	secret := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	if err := s.ring.Set(keyring.Item{
		Key:   tokenSecretKey,
		Data:  secret,
		Label: "Wingman token signing secret",
	}); err != nil {
		return nil, fmt.Errorf("store token secret: %w", err)
	}
	s.logger.Info("generated new token signing secret")
	return secret, nil
}
