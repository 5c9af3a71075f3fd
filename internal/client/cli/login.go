package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/olyox/partner-cli/internal/client/login"
	"github.com/olyox/partner-cli/internal/client/otp"
)

// runLogin requests an OTP for an existing partner and exchanges it for a
// session. Unknown BH IDs are redirected into the registration flow with the
// BH ID carried over.
func (c *Cli) runLogin(ctx context.Context, args []string) error {
	var bhID string
	if len(args) > 0 {
		bhID = strings.TrimSpace(args[0])
	} else {
		input, err := c.io.ReadInput("Enter your BH ID: ")
		if err != nil {
			return fmt.Errorf("failed to read BH ID: %w", err)
		}
		bhID = strings.TrimSpace(input)
	}

	result, err := c.login.RequestOtp(ctx, bhID)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case login.OutcomeGoToRegistration:
		c.io.Println(result.Message)
		answer, err := c.io.ReadInput("Register now with this BH ID as referral? [y/N]: ")
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			return c.runRegister(ctx, []string{result.BhID})
		}
		return nil
	case login.OutcomeGoToCompleteProfile:
		c.io.Println(result.Message)
		c.io.Println("Please complete your profile in the partner app and try again.")
		return nil
	}

	if result.Message != "" {
		c.io.Println(result.Message)
	}
	// The challenge gates resends; verification goes through the login
	// service, which owns the token handoff.
	challenge := otp.NewChallenge(c.apiClient, result.BhID, "", c.logger, nil)
	verify := func(ctx context.Context, code string) error {
		return c.login.VerifyOtp(ctx, result.BhID, code)
	}
	if err := c.runOtpLoop(ctx, challenge, verify); err != nil {
		return err
	}

	c.io.Println("✓ Logged in.")
	return nil
}
