package auth

import (
	"time"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

const (
	DefaultAccessTTL       = 15 * time.Minute
	DefaultRefreshTTL      = 7 * 24 * time.Hour
	DefaultConfirmationTTL = 24 * time.Hour
)

// Service implements ports.TokenService on top of Codec. It owns the
// three TTLs; everything else is the codec's business.
type Service struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	confirmTTL time.Duration
}

// NewService builds a token service. Non-positive TTLs fall back to the
// package defaults.
func NewService(codec *Codec, accessTTL, refreshTTL, confirmTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if confirmTTL <= 0 {
		confirmTTL = DefaultConfirmationTTL
	}
	return &Service{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		confirmTTL: confirmTTL,
	}
}

// IssueSession mints an access + refresh pair for the same subject.
func (s *Service) IssueSession(email string) (*ports.TokenPair, error) {
	access, err := s.codec.Encode(email, PurposeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Encode(email, PurposeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) DecodeAccess(token string) (string, error) {
	return s.codec.Decode(token, PurposeAccess)
}

func (s *Service) DecodeRefresh(token string) (string, error) {
	return s.codec.Decode(token, PurposeRefresh)
}

func (s *Service) IssueConfirmation(email string) (string, error) {
	return s.codec.Encode(email, PurposeConfirmation, s.confirmTTL)
}

func (s *Service) DecodeConfirmation(token string) (string, error) {
	return s.codec.Decode(token, PurposeConfirmation)
}

var _ ports.TokenService = (*Service)(nil)
