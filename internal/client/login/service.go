package login

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/validation"
	pkgapi "github.com/olyox/partner-cli/pkg/api"
)

// Outcome tells the caller where the flow goes after requesting an OTP
type Outcome int

const (
	// OutcomeOtpSent means the partner is registered and an OTP is on its way
	OutcomeOtpSent Outcome = iota
	// OutcomeGoToRegistration means the BH ID is unknown: redirect to the
	// registration step with the BH ID pre-filled
	OutcomeGoToRegistration
	// OutcomeGoToCompleteProfile means the partner exists but never finished
	// onboarding: redirect to profile completion
	OutcomeGoToCompleteProfile
)

// RequestResult is the outcome of an OTP request
type RequestResult struct {
	Outcome Outcome
	BhID    string // pre-filled for redirect outcomes
	Message string
}

// loginAPI is the slice of the API client the login step needs
type loginAPI interface {
	RequestLoginOtp(ctx context.Context, bhID, msgType string) (*pkgapi.AckResponse, error)
	VerifyOtp(ctx context.Context, bhID, otp string) (*pkgapi.TokenResponse, error)
}

// tokenSink receives the token once login succeeds
type tokenSink interface {
	SetToken(ctx context.Context, token, bhID string) error
}

// Service is the two-phase login step for an existing partner: request an
// OTP by BH ID, then exchange the code for a session token.
type Service struct {
	client  loginAPI
	session tokenSink
	logger  *slog.Logger
}

// NewService creates a login service. session receives the token on success.
func NewService(client loginAPI, session tokenSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, session: session, logger: logger}
}

// RequestOtp asks the server to send an OTP to the partner's registered
// number. The cross-step redirects are decided by the structured server error
// code, never by message text: NOT_REGISTERED sends the flow to registration,
// PROFILE_INCOMPLETE to profile completion. The session stays untouched
// either way.
func (s *Service) RequestOtp(ctx context.Context, bhID string) (*RequestResult, error) {
	if err := validation.ValidateBhID(bhID); err != nil {
		return nil, fmt.Errorf("invalid BH ID: %w", err)
	}

	resp, err := s.client.RequestLoginOtp(ctx, bhID, "text")
	if err != nil {
		switch api.ErrorCode(err) {
		case api.CodeNotRegistered:
			s.logger.Info("bh id not registered, redirecting to registration", "bh_id", bhID)
			return &RequestResult{
				Outcome: OutcomeGoToRegistration,
				BhID:    bhID,
				Message: api.UserMessage(err, "BH ID is not registered. Please register first."),
			}, nil
		case api.CodeProfileIncomplete:
			s.logger.Info("profile incomplete, redirecting to completion", "bh_id", bhID)
			return &RequestResult{
				Outcome: OutcomeGoToCompleteProfile,
				BhID:    bhID,
				Message: api.UserMessage(err, "Please complete your profile first."),
			}, nil
		}
		return nil, fmt.Errorf("failed to request OTP: %w", err)
	}

	return &RequestResult{Outcome: OutcomeOtpSent, BhID: bhID, Message: resp.Message}, nil
}

// VerifyOtp exchanges the code for a session token and hands it to the
// session manager. A code that is not exactly six digits is rejected locally.
func (s *Service) VerifyOtp(ctx context.Context, bhID, code string) error {
	if err := validation.ValidateOtp(code); err != nil {
		return err
	}

	resp, err := s.client.VerifyOtp(ctx, bhID, code)
	if err != nil {
		return fmt.Errorf("%s: %w", api.UserMessage(err, "Failed to verify OTP. Please try again."), err)
	}

	if err := s.session.SetToken(ctx, resp.Token, bhID); err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}

	return nil
}
