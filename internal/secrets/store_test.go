package secrets

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/99designs/keyring"
)

// fakeKeyring implements keyring.Keyring backed by a map.
type fakeKeyring struct {
	items map[string]keyring.Item
}

func newFakeKeyring() *fakeKeyring {
	return &fakeKeyring{items: map[string]keyring.Item{}}
}

func (f *fakeKeyring) Get(key string) (keyring.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (f *fakeKeyring) GetMetadata(string) (keyring.Metadata, error) {
	return keyring.Metadata{}, nil
}

func (f *fakeKeyring) Set(item keyring.Item) error {
	f.items[item.Key] = item
	return nil
}

func (f *fakeKeyring) Remove(key string) error {
	if _, ok := f.items[key]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(f.items, key)
	return nil
}

func (f *fakeKeyring) Keys() ([]string, error) {
	var keys []string
	for key := range f.items {
		keys = append(keys, key)
	}
	return keys, nil
}

func TestStoreRoundTrip(t *testing.T) {
	store := &Store{ring: newFakeKeyring()}
	creds := Credentials{Username: "admin", Password: "abcd efgh ijkl", Mode: "password"}

	if err := store.SetCredentials("https://example.test", creds); err != nil {
		t.Fatalf("SetCredentials() error = %v", err)
	}

	got, err := store.GetCredentials("https://example.test")
	if err != nil {
		t.Fatalf("GetCredentials() error = %v", err)
	}
	if got != creds {
		t.Errorf("GetCredentials() = %+v, want %+v", got, creds)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := &Store{ring: newFakeKeyring()}
	_, err := store.GetCredentials("https://missing.test")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCredentials() error = %v, want ErrNotFound", err)
	}
}

func TestStoreDeleteMissingIsNoError(t *testing.T) {
	store := &Store{ring: newFakeKeyring()}
	if err := store.DeleteCredentials("https://missing.test"); err != nil {
		t.Errorf("DeleteCredentials() error = %v, want nil", err)
	}
}

func TestStoreSites(t *testing.T) {
	store := &Store{ring: newFakeKeyring()}
	if err := store.SetCredentials("https://a.test", Credentials{Username: "u"}); err != nil {
		t.Fatalf("SetCredentials() error = %v", err)
	}

	sites, err := store.Sites()
	if err != nil {
		t.Fatalf("Sites() error = %v", err)
	}
	if len(sites) != 1 || sites[0] != "https://a.test" {
		t.Errorf("Sites() = %v, want [https://a.test]", sites)
	}
}

func TestWrapKeychainError_IncludesRecoveryInstructions(t *testing.T) {
	lockedErr := fmt.Errorf("operation failed: errSecInteractionNotAllowed -25308")
	wrapped := wrapKeychainError(lockedErr)

	if !strings.Contains(wrapped.Error(), "security unlock-keychain") {
		t.Errorf("wrapKeychainError() should include unlock instructions, got: %s", wrapped)
	}
}

func TestWrapKeychainError_NilError(t *testing.T) {
	if wrapped := wrapKeychainError(nil); wrapped != nil {
		t.Errorf("wrapKeychainError(nil) = %v, want nil", wrapped)
	}
}

func TestWrapKeychainError_NonLockedError(t *testing.T) {
	originalErr := fmt.Errorf("some other error")
	if wrapped := wrapKeychainError(originalErr); wrapped != originalErr {
		t.Errorf("wrapKeychainError() should pass through non-locked errors, got: %v", wrapped)
	}
}

func TestOpenKeyringWithTimeout_Success(t *testing.T) {
	originalOpen := keyringOpenFunc
	defer func() { keyringOpenFunc = originalOpen }()

	keyringOpenFunc = func(keyring.Config) (keyring.Keyring, error) {
		return newFakeKeyring(), nil
	}

	ring, err := openKeyringWithTimeout(keyring.Config{}, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("openKeyringWithTimeout() error = %v", err)
	}
	if ring == nil {
		t.Error("openKeyringWithTimeout() returned nil ring")
	}
}

func TestOpenKeyringWithTimeout_Timeout(t *testing.T) {
	originalOpen := keyringOpenFunc
	mockDone := make(chan struct{})

	keyringOpenFunc = func(keyring.Config) (keyring.Keyring, error) {
		defer close(mockDone)
		time.Sleep(200 * time.Millisecond)
		return newFakeKeyring(), nil
	}

	_, err := openKeyringWithTimeout(keyring.Config{}, 50*time.Millisecond)

	<-mockDone
	keyringOpenFunc = originalOpen

	if err == nil {
		t.Fatal("openKeyringWithTimeout() expected error, got nil")
	}
	if !strings.Contains(err.Error(), BackendEnvVar+"=file") {
		t.Errorf("timeout error should mention file backend, got: %s", err)
	}
}
