package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	// Isolate from the developer's shell: FromEnv treats empty as unset.
	for _, key := range []string{
		"ADDR", "PORT", "LOG_FORMAT", "UPSTREAM_TIMEOUT_MS",
		"AUTH_ENDPOINT", "HANDSHAKE_ENDPOINT", "POLICIES_ENDPOINT",
		"OTHER_CARRIER_AUTH_ENDPOINT", "OTHER_CARRIER_HANDSHAKE_ENDPOINT", "OTHER_CARRIER_POLICIES_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.UpstreamTimeout)
	_, ok := cfg.Carrier("mock-carrier")
	assert.False(t, ok, "no carriers without endpoint env vars")
}

func TestFromEnvCarriers(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_ENDPOINT", "http://carrier/auth")
	t.Setenv("HANDSHAKE_ENDPOINT", "http://carrier/handshake")
	t.Setenv("POLICIES_ENDPOINT", "http://carrier/policies")
	t.Setenv("OTHER_CARRIER_AUTH_ENDPOINT", "http://other/auth")
	t.Setenv("UPSTREAM_TIMEOUT_MS", "2500")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2500*time.Millisecond, cfg.UpstreamTimeout)

	mock, ok := cfg.Carrier("mock-carrier")
	require.True(t, ok)
	assert.Equal(t, "http://carrier/auth", mock.AuthEndpoint)
	assert.Equal(t, "http://carrier/handshake", mock.HandshakeEndpoint)
	assert.Equal(t, "http://carrier/policies", mock.PolicyEndpoint)

	other, ok := cfg.Carrier("other-carrier")
	require.True(t, ok)
	assert.Equal(t, "http://other/auth", other.AuthEndpoint)

	_, ok = cfg.Carrier("missing-carrier")
	assert.False(t, ok)
}
