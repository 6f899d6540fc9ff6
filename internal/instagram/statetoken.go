package instagram

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultStateTTL = 10 * time.Minute

// StateClaims binds the authenticated user to a single OAuth round trip.
type StateClaims struct {
	UserID int64  `json:"userId"`
	CSRF   string `json:"csrf"`
	jwt.RegisteredClaims
}

// StateCodec mints and verifies signed OAuth state tokens.
type StateCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewStateCodec creates a codec signing with the given secret. A zero ttl
// falls back to ten minutes.
func NewStateCodec(secret string, ttl time.Duration) *StateCodec {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a fresh state token for the user with a random CSRF nonce.
func (c *StateCodec) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := &StateClaims{
		UserID: userID,
		CSRF:   uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}
	return token, nil
}

// Verify returns the claims carried by a valid state token, or nil for any
// failure: malformed input, wrong signature, expired window. Callers must
// treat nil as a client error, not something to retry.
func (c *StateCodec) Verify(token string) *StateClaims {
	parsed, err := jwt.ParseWithClaims(token, &StateClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*StateClaims)
	if !ok {
		return nil
	}
	return claims
}
