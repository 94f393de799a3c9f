// Command mock-carrier is a standalone stand-in for a real carrier. It
// implements the three upstream endpoints the gateway talks to (credential
// exchange, session handshake, policy fetch) and serves a fixed policy
// document, which makes local end-to-end runs possible without carrier
// credentials.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	validUsername = "testuser"
	validPassword = "testpass"
	sessionToken  = "sess-0b1c2d3e4f"
	policyNumber  = "QR12345"
)

// signingKey only needs to produce a structurally valid JWT; the gateway
// never verifies the signature.
var signingKey = []byte("mock-carrier-signing-key")

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	addr := ":" + envOr("PORT", "4000")

	r := chi.NewRouter()
	r.Post("/auth", handleAuth(log))
	r.Post("/handshake", handleHandshake(log))
	r.Post("/policies", handlePolicies(log))

	log.Info("mock carrier listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func handleAuth(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if creds.Username != validUsername || creds.Password != validPassword {
			log.Warn("rejected credentials", "username", creds.Username)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "user-" + uuid.NewString(),
			"iat":    time.Now().Unix(),
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(signingKey)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
			return
		}

		log.Info("issued access token", "username", creds.Username)
		writeJSON(w, http.StatusOK, envelope(map[string]string{"accessToken": signed}))
	}
}

func handleHandshake(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing access token"})
			return
		}
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
			return
		}

		log.Info("handshake completed", "user_id", req.UserID)
		writeJSON(w, http.StatusOK, envelope(map[string]string{
			"session":      sessionToken,
			"policyNumber": policyNumber,
		}))
	}
}

func handlePolicies(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" || r.Header.Get("X-SESSION-ID") != sessionToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid session"})
			return
		}

		log.Info("served policy document", "policy_number", policyNumber)
		writeJSON(w, http.StatusOK, envelope(policyDocument()))
	}
}

// policyDocument mimics a real carrier payload, quirks included: a numeric
// postal code, a ZIP+4, free-text coverage lines, and a string year.
func policyDocument() map[string]any {
	return map[string]any{
		"agreement": map[string]any{
			"displayNumber":          policyNumber,
			"productLineCode":        "A",
			"productDescriptionText": "PRIVATE PASSENGER AUTO",
			"effectiveDate":          "2024-01-01T00:00:00.000Z",
			"endDate":                "2027-01-01T00:00:00.000Z",
			"policyAddress": map[string]any{
				"addressLine1": "123 Main St",
				"city":         "austin",
				"state":        "TX",
				"postalCode":   "78701-4321",
				"country":      "US",
			},
			"vehicles": []any{},
		},
		"coverages": []any{
			map[string]any{
				"name": "BODILY_INJURY",
				"lineDetails": []any{
					map[string]any{"value": "Limit Per Person $100,000"},
					map[string]any{"value": "Limit Per Accident $300,000"},
				},
			},
			map[string]any{
				"name": "COLLISION",
				"lineDetails": []any{
					map[string]any{"value": "Deductible $500"},
				},
			},
			map[string]any{
				"name": "UNINSURED_MOTOR_VEHICLE_CTGRY",
				"lineDetails": []any{
					map[string]any{"value": "UE BI Coverage"},
					map[string]any{"value": "Limit Per Person $50,000"},
					map[string]any{"value": "Limit Per Accident $100,000"},
				},
			},
		},
		"vehicle": map[string]any{
			"bodyStyle": "sedan",
			"vin":       "1HGCM82633A004352",
			"model":     "accord",
			"year":      "2019",
			"make":      "honda",
		},
	}
}

func envelope(data any) map[string]any {
	return map[string]any{"data": data}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
