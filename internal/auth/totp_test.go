package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestGenerateTOTPSecret(t *testing.T) {
	key, err := GenerateTOTPSecret("Limelight", "sasha")
	if err != nil {
		t.Fatalf("GenerateTOTPSecret: %v", err)
	}
	if key.Secret() == "" {
		t.Error("expected non-empty secret")
	}
	if key.Issuer() != "Limelight" {
		t.Errorf("Issuer = %q, want Limelight", key.Issuer())
	}
}

func TestValidateTOTP(t *testing.T) {
	key, err := GenerateTOTPSecret("Limelight", "sasha")
	if err != nil {
		t.Fatalf("GenerateTOTPSecret: %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}

	if !ValidateTOTP(code, key.Secret()) {
		t.Error("valid code rejected")
	}
	if ValidateTOTP("000000", key.Secret()) {
		t.Error("bogus code accepted")
	}
}
