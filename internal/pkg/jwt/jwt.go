package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"mediconnect/internal/domain"
)

type Service struct {
	secret []byte
	ttl    time.Duration
}

// Claims carry the authenticated recipient identity. Tokens are issued by
// the login flow of the doctor/patient services; this service only needs to
// validate them and trust the identity inside.
type Claims struct {
	RecipientID int64       `json:"recipient_id"`
	Role        domain.Role `json:"role"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) GenerateToken(recipient domain.Recipient) (string, error) {
	claims := Claims{
		RecipientID: recipient.ID,
		Role:        recipient.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !claims.Role.Valid() {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
