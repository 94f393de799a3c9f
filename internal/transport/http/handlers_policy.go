package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/models"
	"github.com/codyjhsieh/axlepolicy/internal/platform/middleware"
	"github.com/codyjhsieh/axlepolicy/internal/transport/http/shared"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// PolicyService runs the carrier pipeline for one request.
type PolicyService interface {
	GetPolicy(ctx context.Context, carrierID string, creds models.Credentials) (models.CanonicalPolicy, error)
}

//go:generate mockgen -source=handlers_policy.go -destination=mocks/policy-mocks.go -package=mocks PolicyService

// PolicyHandler is the thin HTTP layer over the carrier pipeline. It owns
// input validation only; protocol and mapping logic live in the services.
type PolicyHandler struct {
	policies PolicyService
	logger   *slog.Logger
}

// NewPolicyHandler constructs a PolicyHandler.
func NewPolicyHandler(policies PolicyService, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{policies: policies, logger: logger}
}

// Register mounts the policy routes on the router.
func (h *PolicyHandler) Register(r chi.Router) {
	r.With(middleware.ContentTypeJSON).Post("/{carrier}/policies", h.handleGetPolicies)
}

func (h *PolicyHandler) handleGetPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	carrierID := chi.URLParam(r, "carrier")
	requestID := middleware.GetRequestID(ctx)

	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.WarnContext(ctx, "undecodable policy request body",
			"request_id", requestID,
			"carrier", carrierID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "Username and password are required"))
		return
	}

	// Password is logged redacted only; never in cleartext.
	h.logger.InfoContext(ctx, "policy request received",
		"request_id", requestID,
		"carrier", carrierID,
		"username", creds.Username,
		"password", redact(creds.Password),
	)

	if govalidator.IsNull(creds.Username) || govalidator.IsNull(creds.Password) {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "Username and password are required"))
		return
	}

	policy, err := h.policies.GetPolicy(ctx, carrierID, creds)
	if err != nil {
		h.logger.WarnContext(ctx, "policy request failed",
			"request_id", requestID,
			"carrier", carrierID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, policy)
}

func redact(password string) string {
	if password == "" {
		return "not provided"
	}
	return "****"
}
