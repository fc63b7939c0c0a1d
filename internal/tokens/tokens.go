package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// SessionClaims carries the embedded expiry plus a random JTI so that two
// tokens minted in the same second never collide.
type SessionClaims struct {
	jwt.RegisteredClaims
}

type Codec struct {
	Secret []byte
	TTL    time.Duration
}

func NewJTI() string { return uuid.NewString() }

func (c *Codec) Mint() (string, time.Time, error) {
	exp := time.Now().Add(c.TTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        NewJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, exp, nil
}

func (c *Codec) Parse(value string) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
