package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret12")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Secret12" {
		t.Fatal("password not hashed")
	}

	if err := CheckPassword(hash, "Secret12"); err != nil {
		t.Errorf("CheckPassword rejected correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  error
	}{
		{"Secret12", nil},
		{"Sh0rt", ErrPasswordTooShort},
		{"alllower1", ErrPasswordNoUpper},
		{"ALLUPPER1", ErrPasswordNoLower},
		{"NoDigitsAtAll", ErrPasswordNoDigit},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePasswordStrength(%q) = %v, want nil", tt.password, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePasswordStrength(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
