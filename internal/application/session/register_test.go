package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

func TestRegister(t *testing.T) {
	users := newMemoryUsers()
	hasher := newTestHasher()
	tokens, _ := newTestTokens(t)
	enqueuer := &recordingEnqueuer{}
	confirmations := NewRequestConfirmation(users, tokens, enqueuer, "https://app.example.com")

	register := NewRegister(users, hasher, confirmations)
	result, err := register.Execute(context.Background(), RegisterInput{
		Username: "jane",
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.False(t, result.User.Confirmed, "new accounts start unconfirmed")
	assert.Nil(t, result.User.RefreshToken)
	assert.NotEqual(t, testPassword, result.User.PasswordHash)
	assert.True(t, hasher.Verify(testPassword, result.User.PasswordHash))

	// Signup kicks off the confirmation mail.
	require.Len(t, enqueuer.sent(), 1)

	_, err = register.Execute(context.Background(), RegisterInput{
		Username: "jane2",
		Email:    testEmail,
		Password: "another password",
	})
	assert.ErrorIs(t, err, domerrors.ErrUserExists)
}

func TestLogout(t *testing.T) {
	users := newMemoryUsers()
	tokens, _ := newTestTokens(t)
	refreshToken := loggedInUser(t, users, tokens)
	require.NotNil(t, users.storedToken(testEmail))

	require.NoError(t, NewLogout(users).Execute(context.Background(), LogoutInput{Email: testEmail}))
	assert.Nil(t, users.storedToken(testEmail))

	// The cleared session cannot be refreshed.
	_, err := NewRefresh(users, tokens).Execute(context.Background(), RefreshInput{RefreshToken: refreshToken})
	assert.ErrorIs(t, err, domerrors.ErrTokenReuse)
}
