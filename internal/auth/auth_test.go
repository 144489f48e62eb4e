package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(Session{ID: "abc", Seed: 42})
	require.NoError(t, err)

	got, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Session{ID: "abc", Seed: 42}, got)
}

func TestVerifyRejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(Session{ID: "abc", Seed: 1})
	require.NoError(t, err)

	other := NewIssuer("other", time.Hour)
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = iss.Verify("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = iss.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifyRequiresSubject(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	token, err := iss.Issue(Session{Seed: 7})
	require.NoError(t, err)
	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
