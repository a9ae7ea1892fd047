package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestCodec(t), time.Minute, time.Hour, 30*time.Minute)
}

func TestServiceDefaults(t *testing.T) {
	s := NewService(newTestCodec(t), 0, 0, 0)
	assert.Equal(t, DefaultAccessTTL, s.accessTTL)
	assert.Equal(t, DefaultRefreshTTL, s.refreshTTL)
	assert.Equal(t, DefaultConfirmationTTL, s.confirmTTL)
}

func TestIssueSession(t *testing.T) {
	s := newTestService(t)
	pair, err := s.IssueSession("jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	subject, err := s.DecodeAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", subject)

	subject, err = s.DecodeRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", subject)
}

func TestSessionTokensAreNotInterchangeable(t *testing.T) {
	s := newTestService(t)
	pair, err := s.IssueSession("jane@example.com")
	require.NoError(t, err)

	_, err = s.DecodeRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ports.ErrWrongPurpose)

	_, err = s.DecodeAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ports.ErrWrongPurpose)

	_, err = s.DecodeConfirmation(pair.AccessToken)
	assert.ErrorIs(t, err, ports.ErrWrongPurpose)
}

func TestConfirmationRoundTrip(t *testing.T) {
	s := newTestService(t)
	token, err := s.IssueConfirmation("jane@example.com")
	require.NoError(t, err)

	subject, err := s.DecodeConfirmation(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", subject)

	_, err = s.DecodeRefresh(token)
	assert.ErrorIs(t, err, ports.ErrWrongPurpose)
}
