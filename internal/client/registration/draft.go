package registration

import (
	"github.com/olyox/partner-cli/pkg/api"
)

// Draft is the in-progress, not-yet-submitted set of new-partner fields.
// It is mutated field-by-field, validated on every change, submitted once as
// an atomic unit, and discarded only after a successful submission.
type Draft struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,simple_email"`
	ReEmail  string `validate:"required,eqfield=Email"`
	Number   string `validate:"required,phone10"`
	Password string `validate:"required,password"`
	Category string `validate:"required"`
	Dob      string `validate:"required,dob_format,adult"` // YYYY-MM-DD
	MemberID string
	Address  Address

	// Referral attachment, set only after the code passed verification
	ReferralCode      string
	IsReferralApplied bool
}

// Address is the applicant's address sub-object
type Address struct {
	Area          string
	StreetAddress string
	Landmark      string
	Pincode       string `validate:"required"`
	Latitude      float64
	Longitude     float64
}

// NewDraft creates an empty registration draft
func NewDraft() *Draft {
	return &Draft{}
}

// NewDraftWithReferral creates a draft pre-filled with a verified referral code
func NewDraftWithReferral(bhID string) *Draft {
	return &Draft{
		ReferralCode:      bhID,
		IsReferralApplied: bhID != "",
	}
}

// toRequest converts the draft to its wire form
func (d *Draft) toRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Name:     d.Name,
		Email:    d.Email,
		ReEmail:  d.ReEmail,
		Number:   d.Number,
		Password: d.Password,
		Category: d.Category,
		Dob:      d.Dob,
		MemberID: d.MemberID,
		Address: api.Address{
			Area:          d.Address.Area,
			StreetAddress: d.Address.StreetAddress,
			Landmark:      d.Address.Landmark,
			Pincode:       d.Address.Pincode,
			Location: api.Location{
				Type:        "Point",
				Coordinates: [2]float64{d.Address.Longitude, d.Address.Latitude},
			},
		},
		ReferralCode:      d.ReferralCode,
		IsReferralApplied: d.IsReferralApplied,
	}
}
