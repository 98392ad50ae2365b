// Package credentials stores backend tokens in the OS keyring, with
// environment variables as a fallback. A token is keyed by backend name
// and injected into the backend process through the environment
// variable named in the backend config.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ivishalgandhi/tw-cli-utils/internal/utils"
)

// Source indicates where a token was retrieved from.
type Source string

const (
	SourceKeyring     Source = "keyring"
	SourceEnvironment Source = "environment"
	SourceNone        Source = "none"
)

// keyringService is the service name under which all tw tokens live;
// the account is the backend name.
const keyringService = "tw-cli"

// Info is the result of a credential lookup.
type Info struct {
	Backend string
	Token   string
	Source  Source
	Found   bool
}

// JSON serializes the lookup result, token excluded.
func (i *Info) JSON() ([]byte, error) {
	output := struct {
		Backend string `json:"backend"`
		Source  string `json:"source"`
		Found   bool   `json:"found"`
	}{
		Backend: i.Backend,
		Source:  string(i.Source),
		Found:   i.Found,
	}
	return json.Marshal(output)
}

// Status is the credential state of one backend, for listings.
type Status struct {
	Backend  string
	HasToken bool
	Source   Source
}

// Manager handles credential operations.
type Manager struct {
	keyring Keyring
}

// ManagerOption is a functional option for Manager.
type ManagerOption func(*Manager)

// WithKeyring sets a custom keyring implementation.
func WithKeyring(k Keyring) ManagerOption {
	return func(m *Manager) {
		m.keyring = k
	}
}

// NewManager creates a new credential manager backed by the OS keyring.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		keyring: &systemKeyring{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// normalizeBackend normalizes backend names to lowercase.
func normalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}

// EnvVarName returns the fallback environment variable for a backend,
// e.g. TW_CLI_JIRA_TOKEN for "jira".
func EnvVarName(backend string) string {
	name := strings.ToUpper(normalizeBackend(backend))
	name = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
	return fmt.Sprintf("TW_CLI_%s_TOKEN", name)
}

// Set stores a token in the keyring.
func (m *Manager) Set(ctx context.Context, backend, token string) error {
	return m.keyring.Set(keyringService, normalizeBackend(backend), token)
}

// Get retrieves a token, trying the keyring first and then the
// backend's fallback environment variable. A missing token is not an
// error; check Found on the result.
func (m *Manager) Get(ctx context.Context, backend string) (*Info, error) {
	backend = normalizeBackend(backend)

	token, err := m.keyring.Get(keyringService, backend)
	if err == nil && token != "" {
		return &Info{
			Source:  SourceKeyring,
			Backend: backend,
			Token:   token,
			Found:   true,
		}, nil
	}

	if token := os.Getenv(EnvVarName(backend)); token != "" {
		return &Info{
			Source:  SourceEnvironment,
			Backend: backend,
			Token:   token,
			Found:   true,
		}, nil
	}

	return &Info{
		Source:  SourceNone,
		Backend: backend,
		Found:   false,
	}, nil
}

// Delete removes a token from the keyring. Deleting a token that was
// never stored is not an error.
func (m *Manager) Delete(ctx context.Context, backend string) error {
	err := m.keyring.Delete(keyringService, normalizeBackend(backend))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// List returns the credential status for each named backend.
func (m *Manager) List(ctx context.Context, backends []string) ([]Status, error) {
	var statuses []Status

	for _, name := range backends {
		info, err := m.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, Status{
			Backend:  info.Backend,
			HasToken: info.Found,
			Source:   info.Source,
		})
	}

	return statuses, nil
}

// Env resolves the environment entry to inject into the backend
// process. It returns nil when the backend config names no credential
// variable, or when the variable is already set in the parent
// environment (the child inherits it). A named variable with no stored
// token is an error so the backend does not fail with a confusing
// authentication message.
func (m *Manager) Env(ctx context.Context, backend, credentialEnv string) ([]string, error) {
	if credentialEnv == "" {
		return nil, nil
	}
	if os.Getenv(credentialEnv) != "" {
		return nil, nil
	}

	info, err := m.Get(ctx, backend)
	if err != nil {
		return nil, err
	}
	if !info.Found {
		return nil, utils.ErrCredentialsNotFound(backend)
	}
	return []string{credentialEnv + "=" + info.Token}, nil
}
