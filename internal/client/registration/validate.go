package registration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olyox/partner-cli/internal/validation"
)

// ValidationError carries independent per-field errors keyed by the form
// field name. Each field's error is computed independently so the whole form
// can be reported at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// Validator validates registration drafts. The clock is injectable for
// deterministic age-boundary tests.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator creates a draft validator. now may be nil for time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	// Custom tags delegate to the field validators shared with the rest of
	// the client, so every flow rejects on the same rules
	_ = v.validate.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return validation.ValidateEmail(fl.Field().String()) == nil
	})
	_ = v.validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return validation.ValidatePhone(fl.Field().String()) == nil
	})
	_ = v.validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validation.ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.validate.RegisterValidation("dob_format", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(validation.DobLayout, fl.Field().String())
		return err == nil
	})
	_ = v.validate.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		if _, err := time.Parse(validation.DobLayout, fl.Field().String()); err != nil {
			// dob_format already reported the shape problem
			return true
		}
		return validation.ValidateAdult(fl.Field().String(), v.now()) == nil
	})

	return v
}

// Validate checks the draft and returns per-field errors keyed by the form
// field name, empty when the draft is submittable
func (v *Validator) Validate(d *Draft) map[string]string {
	err := v.validate.Struct(d)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": err.Error()}
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		key, msg := fieldError(fe)
		// First error per field wins; tags are ordered most-specific-last
		if _, exists := fields[key]; !exists {
			fields[key] = msg
		}
	}
	return fields
}

// fieldError maps a validator failure to the form field key and user-facing
// message the app shows inline
func fieldError(fe validator.FieldError) (string, string) {
	switch fe.StructField() {
	case "Name":
		return "name", "Please enter your name."
	case "Email":
		if fe.Tag() == "required" {
			return "email", "Please provide your email address."
		}
		return "email", "Please enter a valid email address."
	case "ReEmail":
		if fe.Tag() == "required" {
			return "reEmail", "Please re-enter your email address."
		}
		return "reEmail", "Emails do not match."
	case "Number":
		if fe.Tag() == "required" {
			return "number", "Please enter your phone number."
		}
		return "number", "Phone number must be exactly 10 digits."
	case "Password":
		if fe.Tag() == "required" {
			return "password", "Please create a password."
		}
		return "password", fmt.Sprintf("Password must be at least %d characters long.", validation.MinPasswordLen)
	case "Category":
		return "category", "Please select a category."
	case "Dob":
		switch fe.Tag() {
		case "required":
			return "dob", "Please enter your date of birth."
		case "dob_format":
			return "dob", "Please enter a valid date in YYYY-MM-DD format."
		default:
			return "dob", fmt.Sprintf("You must be at least %d years old.", validation.MinAge)
		}
	case "Pincode":
		return "pincode", "Please enter your pincode."
	default:
		return strings.ToLower(fe.StructField()), fe.Error()
	}
}
