package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc, err := NewJWTService("secret", "caretrack")
	require.NoError(t, err)

	token, id, err := svc.Issue("admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, id, claims.ID)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewJWTService("one", "caretrack")
	verifier, _ := NewJWTService("two", "caretrack")

	token, _, err := issuer.Issue("admin", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc, _ := NewJWTService("secret", "caretrack")
	impl := svc.(*jwtService)
	impl.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue("admin", time.Hour)
	require.NoError(t, err)

	impl.now = time.Now
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService("", "caretrack")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
