package api

// CheckBhRequest represents a referral code existence check
type CheckBhRequest struct {
	Bh string `json:"bh"` // BH ID, "BH" prefix + digits
}

// CheckBhResponse represents the server's answer to a referral check
type CheckBhResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`    // display name of the referrer when found
	Message string `json:"message"` // server message (surfaced verbatim on failure)
}

// Location is a GeoJSON point attached to the registration address
type Location struct {
	Type        string     `json:"type"` // always "Point"
	Coordinates [2]float64 `json:"coordinates"`
}

// Address is the applicant's address sub-object
type Address struct {
	Area          string   `json:"area"`
	StreetAddress string   `json:"street_address"`
	Landmark      string   `json:"landmark"`
	Pincode       string   `json:"pincode"`
	Location      Location `json:"location"`
}

// RegisterRequest represents a new partner registration submission
type RegisterRequest struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ReEmail           string  `json:"reEmail"`
	Number            string  `json:"number"`
	Password          string  `json:"password"`
	Category          string  `json:"category"`
	Address           Address `json:"address"`
	Dob               string  `json:"dob"` // YYYY-MM-DD
	MemberID          string  `json:"member_id"`
	ReferralCode      string  `json:"referral_code_which_applied,omitempty"`
	IsReferralApplied bool    `json:"is_referral_applied"`
}

// RegisterResponse represents a pending-verification handoff after registration
type RegisterResponse struct {
	Success    bool   `json:"success"`
	BhID       string `json:"Bh_Id"` // BH ID assigned to the new partner
	Type       string `json:"type"`  // OTP channel: "number" or "email"
	Email      string `json:"email"`
	Number     string `json:"number"`
	ExpireTime string `json:"time"` // server-side OTP expiry, informational only
}

// VerifyOtpRequest represents an OTP exchange for a session token
type VerifyOtpRequest struct {
	BhID string `json:"Bh_Id"`
	Otp  string `json:"otp"`
}

// TokenResponse represents a successful OTP verification
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// ResendOtpRequest asks the server to issue a fresh OTP
type ResendOtpRequest struct {
	BhID string `json:"Bh_Id"`
}

// LoginRequest starts the login flow for a registered partner
type LoginRequest struct {
	BhID    string `json:"Bh_Id"`
	MsgType string `json:"msgType,omitempty"` // delivery channel hint, server default when empty
}

// AckResponse represents a bare success/message acknowledgement
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents the server error envelope.
// Code carries the structured error condition; clients must branch on it,
// never on Message text.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"error_code,omitempty"`
	Message string `json:"message,omitempty"`
}
