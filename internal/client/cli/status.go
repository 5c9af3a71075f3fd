package cli

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olyox/partner-cli/internal/client/session"
)

// runStatus restores the session from disk and prints where it landed
func (c *Cli) runStatus(ctx context.Context) error {
	err := c.session.Bootstrap(ctx)
	if err != nil && !errors.Is(err, session.ErrSessionExpired) {
		return err
	}

	snap := c.session.Snapshot()

	c.io.Println("=== Session Status ===")
	c.io.Printf("State:   %s\n", snap.State)
	c.io.Printf("Profile: %s\n", snap.ProfileState)

	if !snap.IsAuthenticated {
		if errors.Is(err, session.ErrSessionExpired) {
			c.io.Println()
			c.io.Println("Your session has expired. Please login again.")
		}
		return nil
	}

	if snap.BhID != "" {
		c.io.Printf("BH ID:   %s\n", snap.BhID)
	}
	if name := snap.User.DisplayName(); name != "" {
		c.io.Printf("Partner: %s\n", name)
	}
	if exp, ok := tokenExpiry(snap.Token); ok {
		c.io.Printf("Token:   expires %s\n", exp.Format(time.RFC1123))
	}
	return nil
}

// tokenExpiry peeks at the exp claim without verifying the signature; only
// the server can verify, the client just wants to show the deadline. Opaque
// tokens simply have no expiry to show.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
