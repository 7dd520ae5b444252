package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.CreateToken(id, "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("a", time.Hour).CreateToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = NewJWTManager("b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.CreateToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, ComparePasswords(hash, "hunter22"))
	assert.ErrorIs(t, ComparePasswords(hash, "hunter23"), ErrInvalidCredentials)
	assert.ErrorIs(t, ComparePasswords("not-a-hash", "hunter22"), ErrInvalidCredentials)
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "", FormatMillis(0))
	ts := time.Date(2024, 1, 2, 3, 4, 5, 250*int(time.Millisecond), time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05.25Z", FormatMillis(ts.UnixMilli()))
}
