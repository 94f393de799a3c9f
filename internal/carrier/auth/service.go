// Package auth implements the two-phase carrier authentication protocol:
// credential exchange for an access token, then a session handshake that
// trades the token's subject for a session token and policy number.
package auth

import (
	"context"
	"log/slog"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/retry"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/upstream"
	"github.com/codyjhsieh/axlepolicy/internal/platform/config"
	"github.com/codyjhsieh/axlepolicy/internal/platform/metrics"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// Poster posts JSON to a carrier endpoint. Satisfied by *upstream.Client.
type Poster interface {
	PostJSON(ctx context.Context, url string, body any, headers map[string]string, out any) error
}

// Service runs both protocol phases under the shared retry budget.
type Service struct {
	poster    Poster
	logger    *slog.Logger
	metrics   *metrics.Metrics
	retryOpts []retry.Option
}

// Option configures optional Service collaborators.
type Option func(s *Service)

// WithMetrics installs attempt counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRetryOptions appends options to every retry.Do call; tests use it to
// replace the backoff sleep.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(s *Service) { s.retryOpts = append(s.retryOpts, opts...) }
}

// New constructs a Service.
func New(poster Poster, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{poster: poster, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type authData struct {
	AccessToken string `json:"accessToken"`
}

type handshakeData struct {
	Session      string `json:"session"`
	PolicyNumber string `json:"policyNumber"`
}

type handshakeRequest struct {
	UserID string `json:"userId"`
}

// GetSessionToken runs both phases and returns a fully populated session
// context. Each phase has its own retry budget; failures propagate coded.
func (s *Service) GetSessionToken(ctx context.Context, carrier config.Carrier, creds models.Credentials) (models.SessionContext, error) {
	accessToken, err := s.Authenticate(ctx, carrier, creds)
	if err != nil {
		return models.SessionContext{}, err
	}

	sessionToken, policyNumber, err := s.Handshake(ctx, carrier, accessToken)
	if err != nil {
		return models.SessionContext{}, err
	}

	return models.SessionContext{
		AccessToken:  accessToken,
		SessionToken: sessionToken,
		PolicyNumber: policyNumber,
	}, nil
}

// Authenticate exchanges the credential pair for an access token.
func (s *Service) Authenticate(ctx context.Context, carrier config.Carrier, creds models.Credentials) (string, error) {
	s.logger.InfoContext(ctx, "authenticating with carrier",
		"endpoint", carrier.AuthEndpoint,
		"username", creds.Username,
	)

	return retry.Do(ctx, func(ctx context.Context) (string, error) {
		var env upstream.Envelope[authData]
		if err := s.poster.PostJSON(ctx, carrier.AuthEndpoint, creds, nil, &env); err != nil {
			return "", err
		}
		if env.Data.AccessToken == "" {
			return "", dErrors.New(dErrors.CodeMalformedResponse,
				"Authentication failed: auth token missing in response.")
		}
		return env.Data.AccessToken, nil
	}, s.phaseOptions("authenticate")...)
}

// Handshake derives the subject from the access token and exchanges it for a
// session token and policy number. A token that cannot be decoded is fatal
// before any handshake attempt is made.
func (s *Service) Handshake(ctx context.Context, carrier config.Carrier, accessToken string) (string, string, error) {
	subject, err := SubjectFromToken(accessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "access token claims could not be decoded", "error", err.Error())
		return "", "", err
	}

	data, err := retry.Do(ctx, func(ctx context.Context) (handshakeData, error) {
		var env upstream.Envelope[handshakeData]
		headers := map[string]string{"Authorization": accessToken}
		if err := s.poster.PostJSON(ctx, carrier.HandshakeEndpoint, handshakeRequest{UserID: subject}, headers, &env); err != nil {
			return handshakeData{}, err
		}
		if env.Data.Session == "" || env.Data.PolicyNumber == "" {
			return handshakeData{}, dErrors.New(dErrors.CodeMalformedResponse,
				"Handshake failed: session token missing in response.")
		}
		return env.Data, nil
	}, s.phaseOptions("handshake")...)
	if err != nil {
		return "", "", err
	}

	return data.Session, data.PolicyNumber, nil
}

func (s *Service) phaseOptions(phase string) []retry.Option {
	opts := s.retryOpts
	if s.metrics == nil {
		return opts
	}
	return append([]retry.Option{retry.WithNotify(func(attempt int, err error) {
		result := "success"
		if err != nil {
			result = "failure"
		}
		s.metrics.ObserveRetryAttempt(phase, result)
	})}, opts...)
}
