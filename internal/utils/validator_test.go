package utils

import (
	"testing"

	"user_center/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccount(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid", "alice123", false},
		{"valid all letters", "aliceee", false},
		{"minimum length", "abcdef", false},
		{"blank", "", true},
		{"whitespace only", "   ", true},
		{"too short", "abc12", true},
		{"leading digit", "1alice23", true},
		{"leading underscore", "_alice23", true},
		{"embedded symbol", "alice-123", true},
		{"embedded space", "alice 123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccount(tt.account)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindParam))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password123", false},
		{"minimum length", "abcdefg1", false},
		{"blank", "", true},
		{"too short", "pass123", true},
		{"leading digit", "1password", true},
		{"embedded symbol", "password!23", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindParam))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
