package ports

import "errors"

// Decode failures surfaced by TokenService. They propagate unchanged to
// handlers; a token that fails to decode is never treated as valid.
var (
	ErrTokenMalformed = errors.New("token is not parseable")
	ErrBadSignature   = errors.New("token signature does not verify")
	ErrTokenExpired   = errors.New("token has expired")
	ErrWrongPurpose   = errors.New("token presented for the wrong purpose")
)

// TokenPair is a freshly minted access + refresh credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService mints and decodes the three token kinds this service
// deals in. Decoding returns the subject email only; callers re-resolve
// the user and never trust other embedded claims.
type TokenService interface {
	IssueSession(email string) (*TokenPair, error)
	DecodeAccess(token string) (string, error)
	DecodeRefresh(token string) (string, error)
	IssueConfirmation(email string) (string, error)
	DecodeConfirmation(token string) (string, error)
}
