// Package policy fetches the raw carrier policy document for an established
// session.
package policy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/upstream"
	"github.com/codyjhsieh/axlepolicy/internal/platform/config"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// Poster posts JSON to a carrier endpoint. Satisfied by *upstream.Client.
type Poster interface {
	PostJSON(ctx context.Context, url string, body any, headers map[string]string, out any) error
}

// Fetcher retrieves raw policy documents. Unlike the auth phases it makes a
// single attempt; retrying document fetches has never been carrier-safe and
// the asymmetry is deliberate.
type Fetcher struct {
	poster Poster
	logger *slog.Logger
}

// NewFetcher constructs a Fetcher.
func NewFetcher(poster Poster, logger *slog.Logger) *Fetcher {
	return &Fetcher{poster: poster, logger: logger}
}

type fetchRequest struct {
	PolicyNumber string `json:"policyNumber"`
}

// Fetch posts the policy number to the carrier's policy endpoint with the
// session credentials attached as headers. The session context must be fully
// populated; any failure halts the pipeline.
func (f *Fetcher) Fetch(ctx context.Context, carrier config.Carrier, session models.SessionContext) (models.RawPolicy, error) {
	if !session.Complete() {
		return models.RawPolicy{}, dErrors.New(dErrors.CodeInternal,
			"policy fetch requires a fully populated session context")
	}

	endpoint := strings.TrimSuffix(carrier.PolicyEndpoint, "/")
	headers := map[string]string{
		"Authorization": session.AccessToken,
		"X-SESSION-ID":  session.SessionToken,
	}

	var env upstream.Envelope[models.RawPolicy]
	if err := f.poster.PostJSON(ctx, endpoint, fetchRequest{PolicyNumber: session.PolicyNumber}, headers, &env); err != nil {
		f.logger.ErrorContext(ctx, "policy fetch failed",
			"endpoint", endpoint,
			"error", err.Error(),
		)
		return models.RawPolicy{}, err
	}

	f.logger.InfoContext(ctx, "policies fetched", "policy_number", session.PolicyNumber)
	return env.Data, nil
}
