package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olyox/partner-cli/internal/models"
	"github.com/olyox/partner-cli/pkg/api"
)

// profileAPI is the slice of the API client the fetcher needs
type profileAPI interface {
	GetProfile(ctx context.Context, token string) (*api.ProfileResponse, error)
	GetBhDetails(ctx context.Context, bhID string) (*api.BhDetailsResponse, error)
}

// Fetcher hydrates the partner profile: base profile by token, then the
// referral/membership details keyed by the profile's BH ID, merged into one
// user object. The calls are sequential because the second depends on the
// first's output.
type Fetcher struct {
	client profileAPI
	logger *slog.Logger
}

// NewFetcher creates a profile fetcher over the API client
func NewFetcher(client profileAPI, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch retrieves and merges the profile for token.
// A missing BH ID skips the enrichment step; an enrichment failure degrades
// to the base profile instead of failing the whole hydration.
func (f *Fetcher) Fetch(ctx context.Context, token string) (*models.User, error) {
	profileResp, err := f.client.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	user := &models.User{Profile: profileResp.Data}

	if profileResp.Data.BhID == "" {
		return user, nil
	}

	detailsResp, err := f.client.GetBhDetails(ctx, profileResp.Data.BhID)
	if err != nil {
		f.logger.Warn("failed to fetch bh details, returning base profile", "bh_id", profileResp.Data.BhID, "error", err)
		return user, nil
	}

	user.BhDetails = &detailsResp.Data
	return user, nil
}
