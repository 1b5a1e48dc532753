package auth

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP secret for the account and returns
// the key. The key's URL can be rendered as a QR code for authenticator
// apps; its Secret() is what gets stored via UpdateTOTPSecret.
func GenerateTOTPSecret(issuer, username string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: username,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	return key, nil
}

// ValidateTOTP checks a 6-digit code against the stored secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
