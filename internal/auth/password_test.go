package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"", ErrPasswordRequired},
		{"short1", ErrPasswordTooShort},
		{"Short1", ErrPasswordTooShort},
		{"alllowercase1", ErrPasswordNoUppercase},
		{"NoDigitsHere", ErrPasswordNoDigit},
		{"Aa1" + strings.Repeat("x", 70), ErrPasswordTooLong},
		{"ValidPass1", nil},
		{"ÄÖÜäöüß9", nil},
	}
	for _, tc := range cases {
		err := ValidatePasswordStrength(tc.password)
		if tc.want == nil {
			assert.NoError(t, err, tc.password)
			continue
		}
		assert.ErrorIs(t, err, tc.want, tc.password)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := HashPassword("ValidPass1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "ValidPass1", h)

	assert.True(t, VerifyPassword("ValidPass1", h))
	assert.False(t, VerifyPassword("validpass1", h))
	assert.False(t, VerifyPassword("", h))
	assert.False(t, VerifyPassword("ValidPass1", ""))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("ValidPass1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("ValidPass1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordRequired)
}
