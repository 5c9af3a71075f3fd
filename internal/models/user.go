package models

import "github.com/olyox/partner-cli/pkg/api"

// User is the hydrated partner profile held by the session.
// BhDetails is the referral/membership enrichment fetched in a second call;
// it is nil when the profile carries no BH ID or the enrichment fetch failed.
type User struct {
	Profile   api.Profile
	BhDetails *api.BhDetails
}

// DisplayName returns the best human-readable name for the partner
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Profile.Name != "" {
		return u.Profile.Name
	}
	if u.BhDetails != nil {
		return u.BhDetails.Name
	}
	return ""
}

// WalletBalance returns the membership wallet balance, zero when unknown
func (u *User) WalletBalance() float64 {
	if u == nil || u.BhDetails == nil {
		return 0
	}
	return u.BhDetails.Wallet
}
