package validation

import (
	"fmt"
	"regexp"
	"time"
)

// BhIDPattern defines the referral/partner identifier format: "BH" + digits.
// Only the prefix and digit shape are checked client-side; existence is a
// server concern.
var BhIDPattern = regexp.MustCompile(`^BH\d+$`)

// EmailPattern is the single email format check used across the client
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PhonePattern requires exactly 10 digits
var PhonePattern = regexp.MustCompile(`^\d{10}$`)

// OtpPattern requires exactly OtpLength digits
var OtpPattern = regexp.MustCompile(`^\d{6}$`)

const (
	// MinPasswordLen is the minimum password length
	MinPasswordLen = 8
	// MinAge is the minimum applicant age in years
	MinAge = 18
	// OtpLength is the fixed OTP code length
	OtpLength = 6
	// DobLayout is the expected date-of-birth format
	DobLayout = "2006-01-02"
)

// ValidateBhID checks the local shape of a BH ID. Empty or malformed codes
// must be rejected without a network call.
func ValidateBhID(bh string) error {
	if bh == "" {
		return fmt.Errorf("BH ID cannot be empty")
	}
	if !BhIDPattern.MatchString(bh) {
		return fmt.Errorf("BH ID must start with BH followed by digits")
	}
	return nil
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePhone checks for exactly 10 digits
func ValidatePhone(number string) error {
	if number == "" {
		return fmt.Errorf("phone number cannot be empty")
	}
	if !PhonePattern.MatchString(number) {
		return fmt.Errorf("phone number must be exactly 10 digits")
	}
	return nil
}

// ValidatePassword checks the minimum password length
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateOtp checks the local shape of an OTP code
func ValidateOtp(code string) error {
	if code == "" {
		return fmt.Errorf("OTP cannot be empty")
	}
	if !OtpPattern.MatchString(code) {
		return fmt.Errorf("OTP must be exactly %d digits", OtpLength)
	}
	return nil
}

// ValidateAdult parses dob (YYYY-MM-DD) and checks the applicant is at least
// MinAge years old at now. The comparison is exact on year, month, and day:
// someone turns 18 on their birthday, not on January 1st of that year.
func ValidateAdult(dob string, now time.Time) error {
	if dob == "" {
		return fmt.Errorf("date of birth cannot be empty")
	}
	born, err := time.Parse(DobLayout, dob)
	if err != nil {
		return fmt.Errorf("date of birth must be in YYYY-MM-DD format")
	}
	if AgeAt(born, now) < MinAge {
		return fmt.Errorf("you must be at least %d years old", MinAge)
	}
	return nil
}

// AgeAt returns full years elapsed between born and now
func AgeAt(born, now time.Time) int {
	age := now.Year() - born.Year()
	// Birthday not yet reached this year
	if now.Month() < born.Month() ||
		(now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}
