package cli

import (
	"context"
	"fmt"
)

// runLogout deletes the stored session. Safe to run when already logged out.
func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.DeleteToken(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	c.io.Println("✓ Logged out.")
	return nil
}
