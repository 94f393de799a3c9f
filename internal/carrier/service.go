// Package carrier orchestrates the per-request pipeline: credential
// exchange, session handshake, policy fetch, and normalization. Every stage
// returns its outputs explicitly; nothing is shared through ambient state, so
// concurrent requests need no coordination.
package carrier

import (
	"context"
	"log/slog"
	"time"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/normalize"
	"github.com/codyjhsieh/axlepolicy/internal/platform/config"
	"github.com/codyjhsieh/axlepolicy/internal/platform/metrics"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// Authenticator runs the two-phase authentication protocol.
type Authenticator interface {
	GetSessionToken(ctx context.Context, carrier config.Carrier, creds models.Credentials) (models.SessionContext, error)
}

// Fetcher retrieves the raw policy document for an established session.
type Fetcher interface {
	Fetch(ctx context.Context, carrier config.Carrier, session models.SessionContext) (models.RawPolicy, error)
}

// Service is the carrier pipeline.
type Service struct {
	cfg     config.Config
	auth    Authenticator
	fetcher Fetcher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures optional Service collaborators.
type Option func(s *Service)

// WithMetrics installs pipeline counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(cfg config.Config, auth Authenticator, fetcher Fetcher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{cfg: cfg, auth: auth, fetcher: fetcher, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPolicy runs the full pipeline for one request. A failure at any stage
// halts the pipeline; no partial canonical policy is ever returned.
func (s *Service) GetPolicy(ctx context.Context, carrierID string, creds models.Credentials) (models.CanonicalPolicy, error) {
	carrierCfg, ok := s.cfg.Carrier(carrierID)
	if !ok {
		s.observe(carrierID, "unsupported_carrier")
		return models.CanonicalPolicy{}, dErrors.Newf(dErrors.CodeNotFound, "Unsupported carrier: %s", carrierID)
	}

	sessionStart := time.Now()
	session, err := s.auth.GetSessionToken(ctx, carrierCfg, creds)
	s.observeDuration("session", sessionStart)
	if err != nil {
		s.logger.WarnContext(ctx, "session establishment failed",
			"carrier", carrierID,
			"error", err.Error(),
		)
		s.observe(carrierID, string(dErrors.CodeOf(err)))
		return models.CanonicalPolicy{}, err
	}

	fetchStart := time.Now()
	raw, err := s.fetcher.Fetch(ctx, carrierCfg, session)
	s.observeDuration("fetch", fetchStart)
	if err != nil {
		// A fetch failure is a hard stop; normalizing an absent payload
		// would fabricate a policy out of zero values.
		s.observe(carrierID, string(dErrors.CodeOf(err)))
		return models.CanonicalPolicy{}, err
	}

	policy := normalize.Normalize(raw, carrierID)
	if s.metrics != nil {
		s.metrics.IncrementPoliciesNormalized()
	}
	s.observe(carrierID, "success")
	s.logger.InfoContext(ctx, "policy normalized",
		"carrier", carrierID,
		"policy_number", policy.PolicyNumber,
		"type", policy.Type,
	)
	return policy, nil
}

func (s *Service) observe(carrierID, outcome string) {
	if s.metrics != nil {
		s.metrics.ObservePolicyRequest(carrierID, outcome)
	}
}

func (s *Service) observeDuration(phase string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveUpstreamDuration(phase, time.Since(start).Seconds())
	}
}
