package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/olyox/partner-cli/internal/client/session"
)

// runRefresh re-fetches the profile for the current session
func (c *Cli) runRefresh(ctx context.Context) error {
	if err := c.session.Bootstrap(ctx); err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			c.io.Println("Your session has expired. Please login again.")
		}
		return err
	}

	err := c.session.RefreshProfile(ctx)
	switch {
	case errors.Is(err, session.ErrNoToken):
		c.io.Println("You are not logged in. Run 'partner login' first.")
		return err
	case errors.Is(err, session.ErrSessionExpired):
		c.io.Println("Your session has expired. Please login again.")
		return err
	case err != nil:
		return fmt.Errorf("failed to refresh profile: %w", err)
	}

	snap := c.session.Snapshot()
	if name := snap.User.DisplayName(); name != "" {
		c.io.Printf("✓ Profile refreshed for %s.\n", name)
	} else {
		c.io.Println("✓ Profile refreshed.")
	}
	return nil
}
