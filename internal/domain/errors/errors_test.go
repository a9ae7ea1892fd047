package errors

import "testing"

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrUserExists,
		ErrUserNotFound,
		ErrEmailNotConfirmed,
		ErrInvalidCredentials,
		ErrTokenReuse,
	}
	seen := map[string]bool{}
	for _, err := range sentinels {
		if err == nil {
			t.Fatal("sentinel should not be nil")
		}
		if seen[err.Error()] {
			t.Errorf("duplicate sentinel message: %q", err.Error())
		}
		seen[err.Error()] = true
	}
}
