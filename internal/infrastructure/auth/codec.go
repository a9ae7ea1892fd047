package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

// Purpose tags a token with its single acceptable use. The tag travels
// inside the signed payload, so a leaked token of one kind cannot be
// replayed as another even though all three kinds share the signing key.
type Purpose string

const (
	PurposeAccess       Purpose = "access_token"
	PurposeRefresh      Purpose = "refresh_token"
	PurposeConfirmation Purpose = "email_token"
)

type scopedClaims struct {
	jwt.RegisteredClaims
	Scope Purpose `json:"scope"`
}

// Codec encodes and decodes signed, expiring, purpose-tagged tokens.
// HMAC only; the method is chosen by configuration (HS256 default).
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec builds a codec from the process-wide signing secret and an
// algorithm name (HS256, HS384, HS512).
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if algorithm == "" {
		algorithm = "HS256"
	}
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Codec{secret: secret, method: jwt.GetSigningMethod(algorithm)}, nil
}

// Encode mints a token for subject with the given purpose, valid for ttl
// from now.
func (c *Codec) Encode(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := scopedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so two tokens minted within the same second for
			// the same subject never collide; rotation depends on it.
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: purpose,
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies signature, expiry, and purpose, and returns the subject.
// Failures map onto the ports sentinels; callers must not treat any of
// them as recoverable.
func (c *Codec) Decode(token string, expected Purpose) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, &scopedClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", mapParseError(err)
	}
	claims, ok := parsed.Claims.(*scopedClaims)
	if !ok || !parsed.Valid {
		return "", ports.ErrTokenMalformed
	}
	if claims.Scope != expected {
		return "", ports.ErrWrongPurpose
	}
	return claims.Subject, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ports.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ports.ErrBadSignature
	default:
		return ports.ErrTokenMalformed
	}
}
