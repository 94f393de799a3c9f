package config

import (
	"os"
	"strconv"
	"time"
)

// Carrier holds the endpoint triple for one upstream carrier.
type Carrier struct {
	AuthEndpoint      string
	HandshakeEndpoint string
	PolicyEndpoint    string
}

// Config captures everything the gateway reads from the environment. It is
// built once in main and passed by value; business logic never touches env.
type Config struct {
	Addr            string
	LogFormat       string
	UpstreamTimeout time.Duration
	Carriers        map[string]Carrier
}

// DefaultUpstreamTimeout bounds every outbound carrier call. The legacy
// service configured 5s under a misspelled option key, so it never took
// effect; here the timeout is real.
const DefaultUpstreamTimeout = 5 * time.Second

// FromEnv builds a Config from environment variables so main stays lean.
//
// Carrier endpoints follow the legacy env layout: the default carrier
// ("mock-carrier") reads the bare AUTH_ENDPOINT / HANDSHAKE_ENDPOINT /
// POLICIES_ENDPOINT names, every other carrier reads <PREFIX>_-prefixed ones.
func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		addr = ":" + port
	}

	timeout := DefaultUpstreamTimeout
	if raw := os.Getenv("UPSTREAM_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	carriers := map[string]Carrier{}
	if c, ok := carrierFromEnv(""); ok {
		carriers["mock-carrier"] = c
	}
	if c, ok := carrierFromEnv("OTHER_CARRIER_"); ok {
		carriers["other-carrier"] = c
	}

	return Config{
		Addr:            addr,
		LogFormat:       os.Getenv("LOG_FORMAT"),
		UpstreamTimeout: timeout,
		Carriers:        carriers,
	}
}

// Carrier looks up the endpoint triple for a carrier identifier.
func (c Config) Carrier(id string) (Carrier, bool) {
	carrier, ok := c.Carriers[id]
	return carrier, ok
}

func carrierFromEnv(prefix string) (Carrier, bool) {
	c := Carrier{
		AuthEndpoint:      os.Getenv(prefix + "AUTH_ENDPOINT"),
		HandshakeEndpoint: os.Getenv(prefix + "HANDSHAKE_ENDPOINT"),
		PolicyEndpoint:    os.Getenv(prefix + "POLICIES_ENDPOINT"),
	}
	if c.AuthEndpoint == "" && c.HandshakeEndpoint == "" && c.PolicyEndpoint == "" {
		return Carrier{}, false
	}
	return c, true
}
