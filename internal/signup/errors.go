package signup

import "errors"

var (
	ErrFieldsRequired      = errors.New("All fields are required")
	ErrInvalidEmail        = errors.New("Invalid email address")
	ErrEmailExists         = errors.New("Email already exists")
	ErrInvalidReferralCode = errors.New("Invalid referral code")
	ErrPasswordTooLong     = errors.New("Password must be at most 72 bytes")
	ErrCodeExhausted       = errors.New("could not allocate a unique referral code")
)
