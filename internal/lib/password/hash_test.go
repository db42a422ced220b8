package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short password", password: "x"},
		{name: "unicode password", password: "пароль"},
		{name: "73 byte password", password: strings.Repeat("p", 73)},
		{name: "long passphrase", password: strings.Repeat("correct horse battery staple ", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, Compare(hash, tt.password))
		})
	}
}

func TestCompare(t *testing.T) {
	hash, err := Hash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", password: "correct_password", shouldMatch: true},
		{name: "wrong password", password: "wrong_password"},
		{name: "case differs", password: "Correct_Password"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compare(hash, tt.password)
			if tt.shouldMatch {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
		})
	}
}

func TestHash_SamePasswordDifferentSalt(t *testing.T) {
	h1, err := Hash("password")
	require.NoError(t, err)
	h2, err := Hash("password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestCompare_LongPasswordsUseEveryByte(t *testing.T) {
	prefix := strings.Repeat("a", 72)

	hash, err := Hash(prefix + "1")
	require.NoError(t, err)

	assert.NoError(t, Compare(hash, prefix+"1"))
	assert.ErrorIs(t, Compare(hash, prefix+"2"), bcrypt.ErrMismatchedHashAndPassword)
	assert.ErrorIs(t, Compare(hash, prefix), bcrypt.ErrMismatchedHashAndPassword)
}
