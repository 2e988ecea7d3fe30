package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatfleet/fleethealth/observe"
)

// TokenExpiry extracts the expiry claim from a bearer token, when the
// token is a JWT carrying one. Signature verification is deliberately
// skipped: the client is the token's holder, not its audience, and only
// wants to warn before the backend starts rejecting probes.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// warnIfTokenExpiring logs once when the configured token is expired or
// expires within the horizon. Opaque (non-JWT) tokens are left alone.
func (c *HTTPClient) warnIfTokenExpiring(now time.Time) {
	exp, ok := TokenExpiry(c.token)
	if !ok {
		return
	}

	c.warnOnce.Do(func() {
		switch {
		case !exp.After(now):
			c.logger.Warn("backend token is expired; probes will likely fail with 401",
				observe.Fields{"expired_at": exp.Format(time.RFC3339)})
		case exp.Sub(now) < c.horizon:
			c.logger.Warn("backend token expires soon",
				observe.Fields{"expires_at": exp.Format(time.RFC3339)})
		}
	})
}
