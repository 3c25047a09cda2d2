// Package credentials stores provider API keys in the OS keyring.
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "nanocode"

// Set stores key for provider.
func Set(provider, key string) error {
	if err := keyring.Set(serviceName, provider, key); err != nil {
		return fmt.Errorf("store %s key: %w", provider, err)
	}
	return nil
}

// Get returns the stored key for provider; a missing entry is "" with no error.
func Get(provider string) (string, error) {
	v, err := keyring.Get(serviceName, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Delete removes the key for provider; a missing entry is not an error.
func Delete(provider string) error {
	err := keyring.Delete(serviceName, provider)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// GetOrEnv prefers envValue and falls back to the keyring. Keyring failures
// (no keyring daemon, locked store) read as "not configured".
func GetOrEnv(provider, envValue string) string {
	if envValue != "" {
		return envValue
	}
	v, err := Get(provider)
	if err != nil {
		return ""
	}
	return v
}

// Configured reports, per provider, whether a key is stored.
func Configured(providers []string) map[string]bool {
	out := make(map[string]bool, len(providers))
	for _, p := range providers {
		v, err := Get(p)
		out[p] = err == nil && v != ""
	}
	return out
}
