package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// SubjectFromToken extracts the subject identifier the handshake needs from
// an access token. The carrier protocol only requires decoding the claims
// segment, never verifying the signature, so ParseUnverified is the right
// tool; tokens that are not strictly JWT-shaped fall back to a raw decode of
// the second dot-separated segment, since some carriers pad the segment or
// omit the signature entirely. The "userId" claim wins; "sub" is the
// fallback.
func SubjectFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		decoded, decodeErr := decodeClaimsSegment(token)
		if decodeErr != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInvalidToken,
				"Invalid token format. Could not extract userId.")
		}
		claims = decoded
	}

	if userID, ok := claims["userId"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	// Tokens carrying neither claim yield an empty subject; the carrier
	// decides whether to accept that.
	return "", nil
}

// decodeClaimsSegment base64-decodes the second dot-separated segment of a
// token and parses it as JSON claims. It is deliberately tolerant: segment
// count beyond two does not matter, padding is stripped, and both the URL
// and standard base64 alphabets are accepted.
func decodeClaimsSegment(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, errors.New("token has no claims segment")
	}
	segment := strings.TrimRight(parts[1], "=")

	payload, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		payload, err = base64.RawStdEncoding.DecodeString(segment)
	}
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}
