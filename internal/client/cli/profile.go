package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/olyox/partner-cli/internal/client/session"
)

// runProfile restores the session and prints the hydrated partner profile
func (c *Cli) runProfile(ctx context.Context) error {
	if err := c.session.Bootstrap(ctx); err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			c.io.Println("Your session has expired. Please login again.")
		}
		return err
	}

	snap := c.session.Snapshot()
	if !snap.IsAuthenticated {
		c.io.Println("You are not logged in. Run 'partner login' first.")
		return fmt.Errorf("not authenticated")
	}
	if snap.User == nil {
		c.io.Println("Profile is not available right now. Try 'partner refresh'.")
		return nil
	}

	p := snap.User.Profile
	c.io.Println("=== Partner Profile ===")
	c.io.Printf("Name:      %s\n", snap.User.DisplayName())
	c.io.Printf("Email:     %s\n", p.Email)
	c.io.Printf("Number:    %s\n", p.Number)
	if p.BhID != "" {
		c.io.Printf("BH ID:     %s\n", p.BhID)
	}
	c.io.Printf("Category:  %s\n", p.Category)
	c.io.Printf("Verified:  %t\n", p.Verified)
	c.io.Printf("Documents: %t\n", p.DocumentsDone)

	if d := snap.User.BhDetails; d != nil {
		c.io.Println()
		c.io.Println("--- Membership ---")
		c.io.Printf("Wallet:    %.2f\n", snap.User.WalletBalance())
		c.io.Printf("Plan:      %t\n", d.PlanDone)
	}
	return nil
}
