package credentials_test

import (
	"testing"

	"github.com/petasbytes/nanocode/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyring_RoundTrip(t *testing.T) {
	keyring.MockInit()

	v, err := credentials.Get("anthropic")
	require.NoError(t, err)
	assert.Empty(t, v, "missing entry is empty, not an error")

	require.NoError(t, credentials.Set("anthropic", "sk-test"))
	v, err = credentials.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", v)

	assert.Equal(t, map[string]bool{"anthropic": true, "openrouter": false},
		credentials.Configured([]string{"anthropic", "openrouter"}))

	require.NoError(t, credentials.Delete("anthropic"))
	require.NoError(t, credentials.Delete("anthropic"), "second delete is a no-op")
}

func TestGetOrEnv(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, credentials.Set("openrouter", "from-keyring"))

	assert.Equal(t, "from-env", credentials.GetOrEnv("openrouter", "from-env"))
	assert.Equal(t, "from-keyring", credentials.GetOrEnv("openrouter", ""))
	assert.Equal(t, "", credentials.GetOrEnv("anthropic", ""))
}
