package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/olyox/partner-cli/internal/client/otp"
	"github.com/olyox/partner-cli/internal/client/registration"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Partner Registration ===")
	c.io.Println()

	var referral string
	if len(args) > 0 {
		referral = args[0]
	}

	// A supplied referral must verify before the form opens
	if referral != "" {
		result, err := c.registration.VerifyBh(ctx, referral)
		if err != nil {
			return fmt.Errorf("failed to verify referral: %w", err)
		}
		if !result.Valid {
			c.io.Printf("✗ %s\n", result.Message)
			return fmt.Errorf("invalid referral BH ID")
		}
		c.io.Printf("✓ Referral verified: %s\n", result.Name)
		c.io.Println()
	}

	draft, err := c.fillDraft(referral)
	if err != nil {
		return err
	}

	pending, err := c.registration.Submit(ctx, draft)
	if err != nil {
		var vErr *registration.ValidationError
		if errors.As(err, &vErr) {
			c.io.Println("Please correct the following fields:")
			for field, msg := range vErr.Fields {
				c.io.Printf("  %s: %s\n", field, msg)
			}
		}
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Registration submitted. An OTP was sent to %s.\n", pending.Number)

	challenge := otp.NewChallenge(c.apiClient, pending.BhID, pending.Number, c.logger, nil)
	verify := func(ctx context.Context, code string) error {
		token, err := challenge.Verify(ctx, code)
		if err != nil {
			return err
		}
		return c.session.SetToken(ctx, token, pending.BhID)
	}
	if err := c.runOtpLoop(ctx, challenge, verify); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration complete! You are now logged in.")
	return nil
}

// fillDraft reads the registration form field by field
func (c *Cli) fillDraft(referral string) (*registration.Draft, error) {
	draft := registration.NewDraftWithReferral(referral)

	fields := []struct {
		prompt string
		secret bool
		dest   *string
	}{
		{prompt: "Name (as per Aadhaar card): ", dest: &draft.Name},
		{prompt: "Email: ", dest: &draft.Email},
		{prompt: "Re-enter email: ", dest: &draft.ReEmail},
		{prompt: "Phone number (10 digits): ", dest: &draft.Number},
		{prompt: "Password (min 8 chars): ", secret: true, dest: &draft.Password},
		{prompt: "Date of birth (YYYY-MM-DD): ", dest: &draft.Dob},
		{prompt: "Aadhaar / member ID: ", dest: &draft.MemberID},
		{prompt: "Vehicle category ID: ", dest: &draft.Category},
		{prompt: "Area: ", dest: &draft.Address.Area},
		{prompt: "Street address: ", dest: &draft.Address.StreetAddress},
		{prompt: "Landmark: ", dest: &draft.Address.Landmark},
		{prompt: "Pincode: ", dest: &draft.Address.Pincode},
	}

	for _, f := range fields {
		var value string
		var err error
		if f.secret {
			value, err = c.io.ReadPassword(f.prompt)
		} else {
			value, err = c.io.ReadInput(f.prompt)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		*f.dest = value
	}

	return draft, nil
}

// runOtpLoop prompts for the OTP until verify accepts a code. Typing
// "resend" asks for a fresh code, subject to the challenge's local cooldown.
func (c *Cli) runOtpLoop(ctx context.Context, challenge *otp.Challenge, verify func(ctx context.Context, code string) error) error {
	for {
		code, err := c.io.ReadInput("Enter the 6-digit OTP (or 'resend'): ")
		if err != nil {
			return fmt.Errorf("failed to read OTP: %w", err)
		}

		if code == "resend" {
			if err := challenge.Resend(ctx); err != nil {
				c.io.Printf("✗ %v\n", err)
			} else {
				c.io.Println("✓ A fresh OTP is on its way.")
			}
			continue
		}

		if err := verify(ctx, code); err != nil {
			c.io.Printf("✗ %v\n", err)
			continue
		}
		return nil
	}
}
