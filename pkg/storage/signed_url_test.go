package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSignerRoundTrip(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	token, grant, err := signer.Sign("exp-1", "attendance/class-1/exp-1.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := signer.Verify(token, false)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", verified.ExportID)
	assert.Equal(t, "attendance/class-1/exp-1.csv", verified.Path)
	assert.WithinDuration(t, grant.ExpiresAt, verified.ExpiresAt, time.Second)
}

func TestURLSignerExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	signer := NewURLSigner("secret", time.Minute)
	signer.now = func() time.Time { return now }

	token, _, err := signer.Sign("exp-1", "a.csv")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = signer.Verify(token, false)
	assert.ErrorIs(t, err, ErrTokenExpired)

	grant, err := signer.Verify(token, true)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", grant.Path)
}

func TestURLSignerRejectsTampering(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	token, _, err := signer.Sign("exp-1", "a.csv")
	require.NoError(t, err)

	other, _, err := NewURLSigner("other", time.Hour).Sign("exp-1", "a.csv")
	require.NoError(t, err)
	_, err = signer.Verify(other, false)
	assert.ErrorIs(t, err, ErrTokenSignature)

	_, err = signer.Verify("exp-2"+token[len("exp-1"):], false)
	assert.ErrorIs(t, err, ErrTokenSignature)

	_, err = signer.Verify("garbage", false)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, _, err = NewURLSigner("", time.Hour).Sign("exp-1", "a.csv")
	assert.Error(t, err)
}
