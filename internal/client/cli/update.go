package cli

import (
	"context"
	"fmt"
	"strings"

	pkgapi "github.com/olyox/partner-cli/pkg/api"
)

// runUpdate edits partner profile fields. Blank input keeps the current
// value; the session profile is re-fetched after a successful update.
func (c *Cli) runUpdate(ctx context.Context) error {
	if err := c.session.Bootstrap(ctx); err != nil {
		return err
	}

	snap := c.session.Snapshot()
	if !snap.IsAuthenticated {
		c.io.Println("You are not logged in. Run 'partner login' first.")
		return fmt.Errorf("not authenticated")
	}

	c.io.Println("=== Update Profile ===")
	c.io.Println("Leave a field blank to keep the current value.")
	c.io.Println()

	var req pkgapi.UpdateProfileRequest
	fields := []struct {
		prompt string
		dest   *string
	}{
		{prompt: "Name: ", dest: &req.Name},
		{prompt: "Email: ", dest: &req.Email},
		{prompt: "Phone number: ", dest: &req.Number},
	}
	changed := false
	for _, f := range fields {
		value, err := c.io.ReadInput(f.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		value = strings.TrimSpace(value)
		if value != "" {
			*f.dest = value
			changed = true
		}
	}
	if !changed {
		c.io.Println("Nothing to update.")
		return nil
	}

	if _, err := c.apiClient.UpdateProfile(ctx, snap.Token, req); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if err := c.session.RefreshProfile(ctx); err != nil {
		c.logger.Warn("profile refresh after update failed", "error", err)
	}

	c.io.Println("✓ Profile updated.")
	return nil
}
