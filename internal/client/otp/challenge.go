package otp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/validation"
	pkgapi "github.com/olyox/partner-cli/pkg/api"
)

// State is the OTP challenge lifecycle state
type State int

const (
	StateAwaitingCode State = iota
	StateVerifying
	StateVerified
	StateRejected
)

// ResendCooldown is the local rate limit on resending an OTP. It is the only
// built-in rate limit the client enforces; the server tracks expiry.
const ResendCooldown = 120 * time.Second

// ErrCooldownActive is returned when resend is requested before the cooldown
// elapsed. No network call is made.
var ErrCooldownActive = fmt.Errorf("resend cooldown active")

// otpAPI is the slice of the API client the challenge needs
type otpAPI interface {
	VerifyOtp(ctx context.Context, bhID, otp string) (*pkgapi.TokenResponse, error)
	ResendOtp(ctx context.Context, bhID string) (*pkgapi.AckResponse, error)
}

// Challenge is an issued OTP tied to a BH ID and phone number, consumed
// exactly once by a correct code. The resend cooldown counts down
// independently of verification attempts.
type Challenge struct {
	client otpAPI
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	bhID        string
	number      string
	state       State
	resendAfter time.Time
}

// NewChallenge creates a challenge for an OTP the server just issued.
// now may be nil for time.Now.
func NewChallenge(client otpAPI, bhID, number string, logger *slog.Logger, now func() time.Time) *Challenge {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Challenge{
		client: client,
		logger: logger,
		now:    now,
		bhID:   bhID,
		number: number,
		state:  StateAwaitingCode,
	}
}

// State returns the current challenge state
func (c *Challenge) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Number returns the phone number the OTP was sent to
func (c *Challenge) Number() string {
	return c.number
}

// Verify exchanges the code for a session token. A code that is not exactly
// six digits is rejected locally with no network call. The returned token is
// handed to the session manager by the caller.
func (c *Challenge) Verify(ctx context.Context, code string) (string, error) {
	if err := validation.ValidateOtp(code); err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.state == StateVerified {
		c.mu.Unlock()
		return "", fmt.Errorf("OTP already verified")
	}
	c.state = StateVerifying
	c.mu.Unlock()

	resp, err := c.client.VerifyOtp(ctx, c.bhID, code)
	if err != nil {
		c.mu.Lock()
		c.state = StateRejected
		c.mu.Unlock()
		return "", fmt.Errorf("%s: %w", api.UserMessage(err, "Failed to verify OTP. Please try again."), err)
	}

	c.mu.Lock()
	c.state = StateVerified
	c.mu.Unlock()

	return resp.Token, nil
}

// Resend asks the server for a fresh OTP. Rejected locally while the cooldown
// is running; the cooldown resets only on a successful resend.
func (c *Challenge) Resend(ctx context.Context) error {
	c.mu.Lock()
	remaining := c.resendAfter.Sub(c.now())
	c.mu.Unlock()

	if remaining > 0 {
		return fmt.Errorf("%w: wait %s", ErrCooldownActive, remaining.Round(time.Second))
	}

	if _, err := c.client.ResendOtp(ctx, c.bhID); err != nil {
		return fmt.Errorf("failed to resend OTP: %w", err)
	}

	c.mu.Lock()
	c.resendAfter = c.now().Add(ResendCooldown)
	// A fresh code supersedes any earlier rejected attempt
	if c.state == StateRejected {
		c.state = StateAwaitingCode
	}
	c.mu.Unlock()

	c.logger.Info("otp resent", "bh_id", c.bhID)
	return nil
}

// CooldownRemaining returns how long until resend is allowed, zero when it
// already is
func (c *Challenge) CooldownRemaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining := c.resendAfter.Sub(c.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
