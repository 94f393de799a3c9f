package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/retry"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/upstream"
	"github.com/codyjhsieh/axlepolicy/internal/platform/config"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	client := upstream.NewClient(2*time.Second, testLogger())
	return New(client, testLogger(), WithRetryOptions(
		retry.WithSleep(func(ctx context.Context, d time.Duration) error { return nil }),
	))
}

func TestGetSessionToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userId": "user-9"})

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "s3cret", creds.Password)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"accessToken": token}})
	}))
	defer authSrv.Close()

	handshakeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, token, r.Header.Get("Authorization"))
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user-9", req["userId"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"session": "S1", "policyNumber": "P1"},
		})
	}))
	defer handshakeSrv.Close()

	carrier := config.Carrier{AuthEndpoint: authSrv.URL, HandshakeEndpoint: handshakeSrv.URL}
	svc := newTestService(t)

	session, err := svc.GetSessionToken(context.Background(), carrier, models.Credentials{
		Username: "alice", Password: "s3cret",
	})

	require.NoError(t, err)
	assert.Equal(t, models.SessionContext{
		AccessToken:  token,
		SessionToken: "S1",
		PolicyNumber: "P1",
	}, session)
	assert.True(t, session.Complete())
}

func TestAuthenticateMissingTokenIsMalformed(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{}})
	}))
	defer srv.Close()

	svc := newTestService(t)
	_, err := svc.Authenticate(context.Background(), config.Carrier{AuthEndpoint: srv.URL}, models.Credentials{})

	assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedResponse))
	assert.Equal(t, 1, calls, "a protocol violation is not retried")
	assert.Equal(t, "Authentication failed: auth token missing in response.", err.Error())
}

func TestAuthenticateUnauthorizedSingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := newTestService(t)
	_, err := svc.Authenticate(context.Background(), config.Carrier{AuthEndpoint: srv.URL}, models.Credentials{})

	assert.Equal(t, 1, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
}

func TestAuthenticateUnavailableAfterRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := newTestService(t)
	_, err := svc.Authenticate(context.Background(), config.Carrier{AuthEndpoint: srv.URL}, models.Credentials{})

	assert.Equal(t, retry.DefaultMaxAttempts, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestAuthenticateRecoversAfterRateLimit(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "s"})
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"accessToken": token}})
	}))
	defer srv.Close()

	var delays []time.Duration
	client := upstream.NewClient(2*time.Second, testLogger())
	svc := New(client, testLogger(), WithRetryOptions(
		retry.WithSleep(func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
	))

	got, err := svc.Authenticate(context.Background(), config.Carrier{AuthEndpoint: srv.URL}, models.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, token, got)
	assert.Equal(t, []time.Duration{2 * time.Second}, delays, "server-directed backoff wins")
}

func TestHandshakeInvalidTokenNeverCallsCarrier(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	svc := newTestService(t)
	_, _, err := svc.Handshake(context.Background(), config.Carrier{HandshakeEndpoint: srv.URL}, "garbage")

	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
	assert.Zero(t, calls, "no handshake attempt for an undecodable token")
}

func TestHandshakeMissingSessionIsMalformed(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userId": "u"})
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"policyNumber": "P1"},
		})
	}))
	defer srv.Close()

	svc := newTestService(t)
	_, _, err := svc.Handshake(context.Background(), config.Carrier{HandshakeEndpoint: srv.URL}, token)

	assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedResponse))
	assert.Equal(t, 1, calls)
}
