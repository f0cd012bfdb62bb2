package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	svc := NewService([]byte("test_secret"), time.Hour)

	signed, err := svc.Sign(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "42", claims.Subject)
	require.True(t, claims.IsAdmin)
}

func TestVerifyIsIdempotent(t *testing.T) {
	svc := NewService([]byte("test_secret"), time.Hour)

	signed, err := svc.Sign(7, false)
	require.NoError(t, err)

	first, err := svc.Verify(signed)
	require.NoError(t, err)
	second, err := svc.Verify(signed)
	require.NoError(t, err)

	require.Equal(t, first.UserID, second.UserID)
	require.Equal(t, first.IsAdmin, second.IsAdmin)
	require.Equal(t, first.ExpiresAt.Unix(), second.ExpiresAt.Unix())
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService([]byte("test_secret"), -time.Minute)

	signed, err := svc.Sign(1, true)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)

	// repetition does not change the outcome
	_, err = svc.Verify(signed)
	require.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := NewService([]byte("test_secret"), time.Hour)
	other := NewService([]byte("other_secret"), time.Hour)

	signed, err := svc.Sign(1, true)
	require.NoError(t, err)

	_, err = other.Verify(signed)
	require.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService([]byte("test_secret"), time.Hour)

	_, err := svc.Verify("not-a-token")
	require.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	svc := NewService([]byte("test_secret"), 0)
	require.Equal(t, DefaultTTL, svc.TTL)

	signed, err := svc.Sign(1, false)
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}
