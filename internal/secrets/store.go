// Package secrets stores site credentials in the system keychain (macOS
// Keychain, Windows Credential Manager, Secret Service on Linux) with an
// encrypted-file fallback.
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"github.com/mossgarden/wpnav/internal/config"
)

// BackendEnvVar overrides backend selection; set to "file" to skip the
// system keychain entirely.
const BackendEnvVar = "WPNAV_KEYRING_BACKEND"

// openTimeout bounds how long we wait for the keychain to respond; a locked
// or misbehaving keychain daemon can otherwise hang forever.
const openTimeout = 10 * time.Second

// ErrNotFound is returned when no credentials are stored for a site.
var ErrNotFound = errors.New("no stored credentials")

// keyringOpenFunc is swapped out in tests.
var keyringOpenFunc = keyring.Open

// Credentials are the stored login for one site.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Mode     string `json:"mode,omitempty"`
}

// Store wraps a keyring for credential records keyed by site URL.
type Store struct {
	ring keyring.Keyring
}

// OpenDefault opens the store using the backend from WPNAV_KEYRING_BACKEND,
// falling back to backend auto-selection.
func OpenDefault() (*Store, error) {
	return Open(os.Getenv(BackendEnvVar))
}

// Open opens the store with an explicit backend ("", "auto", "keychain", or
// "file").
func Open(backend string) (*Store, error) {
	fileDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:              config.AppName,
		FileDir:                  fileDir,
		FilePasswordFunc:         promptFilePassword,
		KeychainTrustApplication: true,
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "file":
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	case "keychain":
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
		}
	case "", "auto":
		// Let the library pick, with file as the last resort.
	default:
		return nil, fmt.Errorf("unknown keyring backend: %s", backend)
	}

	ring, err := openKeyringWithTimeout(cfg, openTimeout)
	if err != nil {
		return nil, err
	}
	return &Store{ring: ring}, nil
}

// openKeyringWithTimeout opens the keyring, giving up after timeout with an
// error that points at the file backend escape hatch.
func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	done := make(chan result, 1)

	go func() {
		ring, err := keyringOpenFunc(cfg)
		done <- result{ring: ring, err: err}
	}()

	select {
	case res := <-done:
		return res.ring, wrapKeychainError(res.err)
	case <-time.After(timeout):
		return nil, fmt.Errorf(
			"keychain did not respond within %s; if this persists, set %s=file to use the encrypted file backend",
			timeout, BackendEnvVar)
	}
}

// wrapKeychainError attaches recovery instructions to macOS locked-keychain
// errors; anything else passes through untouched.
func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "errSecInteractionNotAllowed") || strings.Contains(msg, "-25308") {
		return fmt.Errorf(
			"keychain is locked: %w\nRun 'security unlock-keychain' or log in to your desktop session, then retry", err)
	}
	return err
}

func promptFilePassword(prompt string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

const siteKeyPrefix = "site:"

// SetCredentials stores the login for a site, replacing any existing record.
func (s *Store) SetCredentials(site string, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	err = s.ring.Set(keyring.Item{
		Key:   siteKeyPrefix + site,
		Data:  data,
		Label: config.AppName + ": " + site,
	})
	return wrapKeychainError(err)
}

// GetCredentials returns the stored login for a site.
func (s *Store) GetCredentials(site string) (Credentials, error) {
	item, err := s.ring.Get(siteKeyPrefix + site)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, wrapKeychainError(err)
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decoding credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredentials removes the stored login for a site. Deleting a site
// that has no record is not an error.
func (s *Store) DeleteCredentials(site string) error {
	err := s.ring.Remove(siteKeyPrefix + site)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return wrapKeychainError(err)
	}
	return nil
}

// Sites lists every site with stored credentials.
func (s *Store) Sites() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	var sites []string
	for _, key := range keys {
		if strings.HasPrefix(key, siteKeyPrefix) {
			sites = append(sites, strings.TrimPrefix(key, siteKeyPrefix))
		}
	}
	return sites, nil
}
