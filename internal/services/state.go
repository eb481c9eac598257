package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL is how long an issued state token stays valid. It matches the
// lifetime of the transient OAuth cookies.
const StateTTL = 600 * time.Second

// StateService issues and validates the CSRF state tokens round-tripped
// through the OAuth redirect. Tokens are signed JWTs carrying a random
// nonce, so a token is both unguessable and self-expiring; the callback
// still exact-matches the returned state against the stored cookie
// before anything else.
type StateService struct {
	secret []byte
}

// NewStateService creates a StateService with the given signing secret.
func NewStateService(secret string) *StateService {
	return &StateService{secret: []byte(secret)}
}

// Generate returns a freshly signed state token valid for StateTTL.
func (s *StateService) Generate() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    "vibeset",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the token signature and expiry.
func (s *StateService) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid state token")
	}
	return nil
}
