package registration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olyox/partner-cli/internal/validation"
	"github.com/olyox/partner-cli/pkg/api"
)

// registrationAPI is the slice of the API client this step needs
type registrationAPI interface {
	CheckBhID(ctx context.Context, bh string) (*api.CheckBhResponse, error)
	RegisterPartner(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
}

// VerifyResult is the outcome of a referral code check
type VerifyResult struct {
	Valid   bool
	Name    string // referrer's display name when valid
	Message string // server or local message when invalid
}

// PendingVerification is the handoff from a successful registration to the
// OTP verification step
type PendingVerification struct {
	BhID       string // BH ID assigned to the new partner
	Number     string
	Email      string
	Channel    string // "number" or "email"
	ExpireTime string
}

// Service drives the BH-ID verification and registration submission steps.
// It never mutates session state; a session only appears after the OTP step
// exchanges the pending verification for a token.
type Service struct {
	client    registrationAPI
	validator *Validator
	logger    *slog.Logger
}

// NewService creates a registration service
func NewService(client registrationAPI, v *Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = NewValidator(nil)
	}
	return &Service{client: client, validator: v, logger: logger}
}

// VerifyBh validates a referral code against the server. An empty or
// malformed code short-circuits locally without a network call.
func (s *Service) VerifyBh(ctx context.Context, code string) (*VerifyResult, error) {
	if err := validation.ValidateBhID(code); err != nil {
		return &VerifyResult{Valid: false, Message: err.Error()}, nil
	}

	resp, err := s.client.CheckBhID(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to verify BH ID: %w", err)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid BH ID. Please check and try again."
		}
		return &VerifyResult{Valid: false, Message: msg}, nil
	}

	return &VerifyResult{Valid: true, Name: resp.Data}, nil
}

// Submit validates the draft and sends it to the server. Validation failures
// return *ValidationError with no network call. On server rejection the draft
// is left intact so the caller can correct and resubmit; on success the
// caller discards the draft and moves to OTP verification.
func (s *Service) Submit(ctx context.Context, d *Draft) (*PendingVerification, error) {
	if fields := s.validator.Validate(d); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	resp, err := s.client.RegisterPartner(ctx, d.toRequest())
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("registration submitted", "bh_id", resp.BhID, "channel", resp.Type, "number", resp.Number)

	return &PendingVerification{
		BhID:       resp.BhID,
		Number:     resp.Number,
		Email:      resp.Email,
		Channel:    resp.Type,
		ExpireTime: resp.ExpireTime,
	}, nil
}
