package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.CreateToken(userID)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.CreateToken(uuid.New())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).CreateToken(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "s3cret"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}

func TestGenerateOtpCode(t *testing.T) {
	code, err := GenerateOtpCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.True(t, allDigits(code))

	_, err = GenerateOtpCode(0)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", FormatDate(d))

	d, err = ParseDate("2025-03-01T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", FormatDate(d))

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
}
