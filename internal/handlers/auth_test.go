package handlers

import (
	"testing"
	"time"

	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	profile := types.Profile{
		ID:    "sub-1",
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  types.RoleCitizen,
	}

	token, err := issueToken(profile, secret, time.Hour)
	require.NoError(t, err)

	subject, err := parseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, subject.ID)
	assert.Equal(t, profile.Name, subject.Name)
	assert.Equal(t, profile.Email, subject.Email)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := issueToken(types.Profile{ID: "sub-1"}, []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = parseToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := issueToken(types.Profile{ID: "sub-1"}, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(token, []byte("secret"))
	assert.Error(t, err)
}
