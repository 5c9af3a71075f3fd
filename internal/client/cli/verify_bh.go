package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runVerifyBh(ctx context.Context, args []string) error {
	var code string
	if len(args) > 0 {
		code = args[0]
	} else {
		input, err := c.io.ReadInput("Enter BH ID: ")
		if err != nil {
			return fmt.Errorf("failed to read BH ID: %w", err)
		}
		code = input
	}

	result, err := c.registration.VerifyBh(ctx, code)
	if err != nil {
		return err
	}

	if !result.Valid {
		c.io.Printf("✗ %s\n", result.Message)
		return fmt.Errorf("BH ID is not valid")
	}

	c.io.Printf("✓ BH ID %s belongs to %s\n", code, result.Name)
	c.io.Println("You can use it as a referral when registering.")
	return nil
}
