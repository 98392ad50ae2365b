package credentials

import (
	"errors"
	"fmt"
	"sync"

	gokeyring "github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no token is stored for an account.
var ErrNotFound = errors.New("credential not found")

// ErrKeyringNotAvailable is returned when the OS keyring cannot be
// reached, e.g. on headless machines with no Secret Service.
var ErrKeyringNotAvailable = errors.New("system keyring not available")

// Keyring is the interface for keyring operations.
type Keyring interface {
	Set(service, account, token string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

// systemKeyring stores tokens in the OS keyring (Secret Service on
// Linux, Keychain on macOS, Credential Manager on Windows).
type systemKeyring struct{}

func (s *systemKeyring) Set(service, account, token string) error {
	if err := gokeyring.Set(service, account, token); err != nil {
		return wrapKeyringError(err)
	}
	return nil
}

func (s *systemKeyring) Get(service, account string) (string, error) {
	token, err := gokeyring.Get(service, account)
	if err != nil {
		return "", wrapKeyringError(err)
	}
	return token, nil
}

func (s *systemKeyring) Delete(service, account string) error {
	if err := gokeyring.Delete(service, account); err != nil {
		return wrapKeyringError(err)
	}
	return nil
}

func wrapKeyringError(err error) error {
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gokeyring.ErrUnsupportedPlatform):
		return fmt.Errorf("%w: %v", ErrKeyringNotAvailable, err)
	default:
		return err
	}
}

// MockKeyring is an in-memory Keyring for tests.
type MockKeyring struct {
	mu    sync.RWMutex
	store map[string]map[string]string // service -> account -> token
}

// NewMockKeyring creates a new mock keyring.
func NewMockKeyring() *MockKeyring {
	return &MockKeyring{
		store: make(map[string]map[string]string),
	}
}

// Set stores a token in the mock keyring.
func (m *MockKeyring) Set(service, account, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store[service] == nil {
		m.store[service] = make(map[string]string)
	}
	m.store[service][account] = token
	return nil
}

// Get retrieves a token from the mock keyring.
func (m *MockKeyring) Get(service, account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if accounts, ok := m.store[service]; ok {
		if token, ok := accounts[account]; ok {
			return token, nil
		}
	}
	return "", fmt.Errorf("%s/%s: %w", service, account, ErrNotFound)
}

// Delete removes a token from the mock keyring.
func (m *MockKeyring) Delete(service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if accounts, ok := m.store[service]; ok {
		if _, ok := accounts[account]; ok {
			delete(accounts, account)
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", service, account, ErrNotFound)
}
