package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
	infraauth "github.com/amirhosseinghanipour/bearer/internal/infrastructure/auth"
)

// loggedInUser seeds a confirmed user and opens a session, returning
// the session's refresh token.
func loggedInUser(t *testing.T, users *memoryUsers, tokens ports.TokenService) string {
	t.Helper()
	hasher := newTestHasher()
	seedUser(t, users, hasher, true)
	result, err := NewLogin(users, hasher, tokens).Execute(context.Background(), LoginInput{
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)
	return result.Tokens.RefreshToken
}

func TestRefreshRotates(t *testing.T) {
	users := newMemoryUsers()
	tokens, _ := newTestTokens(t)
	tokenA := loggedInUser(t, users, tokens)

	refresh := NewRefresh(users, tokens)
	result, err := refresh.Execute(context.Background(), RefreshInput{RefreshToken: tokenA})
	require.NoError(t, err)
	tokenB := result.Tokens.RefreshToken
	assert.NotEqual(t, tokenA, tokenB)

	stored := users.storedToken(testEmail)
	require.NotNil(t, stored)
	assert.Equal(t, tokenB, *stored)
}

func TestRefreshReuseRevokesSession(t *testing.T) {
	users := newMemoryUsers()
	tokens, _ := newTestTokens(t)
	tokenA := loggedInUser(t, users, tokens)

	refresh := NewRefresh(users, tokens)
	result, err := refresh.Execute(context.Background(), RefreshInput{RefreshToken: tokenA})
	require.NoError(t, err)
	tokenB := result.Tokens.RefreshToken

	// Replaying the rotated-away token revokes everything.
	_, err = refresh.Execute(context.Background(), RefreshInput{RefreshToken: tokenA})
	assert.ErrorIs(t, err, domerrors.ErrTokenReuse)
	assert.Nil(t, users.storedToken(testEmail))

	// Including the legitimately issued successor.
	_, err = refresh.Execute(context.Background(), RefreshInput{RefreshToken: tokenB})
	assert.ErrorIs(t, err, domerrors.ErrTokenReuse)
}

func TestRefreshDecodeFailuresPropagate(t *testing.T) {
	users := newMemoryUsers()
	tokens, codec := newTestTokens(t)
	loggedInUser(t, users, tokens)
	refresh := NewRefresh(users, tokens)

	_, err := refresh.Execute(context.Background(), RefreshInput{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, ports.ErrTokenMalformed)

	expired, err := codec.Encode(testEmail, infraauth.PurposeRefresh, -time.Second)
	require.NoError(t, err)
	_, err = refresh.Execute(context.Background(), RefreshInput{RefreshToken: expired})
	assert.ErrorIs(t, err, ports.ErrTokenExpired)

	access, err := codec.Encode(testEmail, infraauth.PurposeAccess, time.Minute)
	require.NoError(t, err)
	_, err = refresh.Execute(context.Background(), RefreshInput{RefreshToken: access})
	assert.ErrorIs(t, err, ports.ErrWrongPurpose)

	// Decode failures must not touch the stored session.
	assert.NotNil(t, users.storedToken(testEmail))
}

func TestRefreshUnknownSubject(t *testing.T) {
	users := newMemoryUsers()
	tokens, codec := newTestTokens(t)

	ghost, err := codec.Encode("ghost@example.com", infraauth.PurposeRefresh, time.Minute)
	require.NoError(t, err)
	_, err = NewRefresh(users, tokens).Execute(context.Background(), RefreshInput{RefreshToken: ghost})
	assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	users := newMemoryUsers()
	tokens, _ := newTestTokens(t)
	tokenA := loggedInUser(t, users, tokens)
	refresh := NewRefresh(users, tokens)

	const callers = 32
	var wg sync.WaitGroup
	outcomes := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := refresh.Execute(context.Background(), RefreshInput{RefreshToken: tokenA})
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	var wins, reuses int
	for err := range outcomes {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, domerrors.ErrTokenReuse):
			reuses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one rotation may win")
	assert.Equal(t, callers-1, reuses)
}
