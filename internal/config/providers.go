package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/petasbytes/nanocode/internal/credentials"
)

var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrMissingCredential = errors.New("missing credential")
)

// Kind selects the wire protocol spoken to a provider.
type Kind string

const (
	KindAnthropic Kind = "anthropic"
	KindOpenAI    Kind = "openai"
)

// ProviderConfig describes one backend. It is fixed for the life of a session.
type ProviderConfig struct {
	Name          string
	Kind          Kind
	Endpoint      string
	DefaultModel  string
	CredentialEnv string
}

var builtin = map[string]ProviderConfig{
	"anthropic": {
		Name:          "anthropic",
		Kind:          KindAnthropic,
		Endpoint:      "https://api.anthropic.com/v1/messages",
		DefaultModel:  "claude-opus-4-5",
		CredentialEnv: "ANTHROPIC_API_KEY",
	},
	"openrouter": {
		Name:          "openrouter",
		Kind:          KindOpenAI,
		Endpoint:      "https://openrouter.ai/api/v1/chat/completions",
		DefaultModel:  "minimax/minimax-m2.1",
		CredentialEnv: "OPENROUTER_API_KEY",
	},
}

// ProviderNames lists the built-in providers, sorted.
func ProviderNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named provider.
func Lookup(name string) (ProviderConfig, error) {
	pc, ok := builtin[strings.ToLower(name)]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w %q (valid: %s)", ErrUnknownProvider, name, strings.Join(ProviderNames(), ", "))
	}
	return pc, nil
}

// Credential resolves the API key for pc: the environment first, then the
// OS keyring. An empty result is ErrMissingCredential.
func Credential(pc ProviderConfig) (string, error) {
	key := credentials.GetOrEnv(pc.Name, os.Getenv(pc.CredentialEnv))
	if key == "" {
		return "", fmt.Errorf("%w: set %s or run `nanocode auth set %s`", ErrMissingCredential, pc.CredentialEnv, pc.Name)
	}
	return key, nil
}
