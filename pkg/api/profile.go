package api

// ProfileResponse wraps the base partner profile keyed by the bearer token
type ProfileResponse struct {
	Success bool    `json:"success"`
	Data    Profile `json:"data"`
}

// Profile is the partner profile as returned by the app API
type Profile struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Number        string   `json:"number"`
	BhID          string   `json:"Bh_Id"`
	Category      string   `json:"category"`
	DocumentsDone bool     `json:"isAllDocsUpload"`
	Verified      bool     `json:"isVerified"`
	ServiceAreas  []string `json:"service_areas,omitempty"`
}

// BhDetailsResponse wraps the referral/membership details keyed by BH ID
type BhDetailsResponse struct {
	Success bool      `json:"success"`
	Data    BhDetails `json:"data"`
}

// BhDetails is the referral/membership enrichment merged into the profile
type BhDetails struct {
	ID       string  `json:"_id"`
	BhID     string  `json:"BH_ID"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Number   string  `json:"number"`
	Wallet   float64 `json:"wallet"`
	PlanDone bool    `json:"plan_status"`
}

// UpdateProfileRequest carries partner-editable profile fields
type UpdateProfileRequest struct {
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Number       string   `json:"number,omitempty"`
	ServiceAreas []string `json:"service_areas,omitempty"`
}
