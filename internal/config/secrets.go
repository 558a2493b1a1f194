package config

import (
	"encoding/json"
	"os"
	"sync"
)

// SecretStore holds adapter credentials separately from the plain-text
// config files. Implementations must tolerate concurrent use from a
// single process.
type SecretStore interface {
	Get(adapterName string) (string, error)
	Set(adapterName, secret string) error
	Delete(adapterName string) error
}

// fileSecretStore keeps secrets in a single credentials.json with mode
// 0600. It is the default store; an OS keychain can be wired in through
// WithSecretStore.
type fileSecretStore struct {
	mu   sync.Mutex
	path string
}

func (s *fileSecretStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	secrets := map[string]string{}
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

func (s *fileSecretStore) save(secrets map[string]string) error {
	raw, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *fileSecretStore) Get(adapterName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	return secrets[adapterName], nil
}

func (s *fileSecretStore) Set(adapterName, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	secrets, err := s.load()
	if err != nil {
		return err
	}
	secrets[adapterName] = secret
	return s.save(secrets)
}

func (s *fileSecretStore) Delete(adapterName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	secrets, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[adapterName]; !ok {
		return nil
	}
	delete(secrets, adapterName)
	return s.save(secrets)
}
