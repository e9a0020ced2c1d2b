package auth

import (
	"errors"
	"fmt"
	"time"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID    string  `json:"user_id"`
	Role      string  `json:"role"`
	StationID *string `json:"station_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into the identity the services authorize against.
func (c *Claims) Caller() (domain.Caller, error) {
	var caller domain.Caller

	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return caller, fmt.Errorf("auth: user_id: %w", e.ErrUnauthorized)
	}
	role := domain.Role(c.Role)
	if !role.Valid() {
		return caller, fmt.Errorf("auth: role %q: %w", c.Role, e.ErrUnauthorized)
	}

	caller = domain.Caller{UserID: id, Role: role, Name: c.Name}
	if c.StationID != nil && *c.StationID != "" {
		sid, err := uuid.Parse(*c.StationID)
		if err != nil {
			return domain.Caller{}, fmt.Errorf("auth: station_id: %w", e.ErrUnauthorized)
		}
		caller.StationID = &sid
	}
	return caller, nil
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// NewAccessToken signs an HS256 token for caller. Token issuance belongs to the
// surrounding auth system; this is used by tooling and tests.
func (i *Issuer) NewAccessToken(caller domain.Caller) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: caller.UserID.String(),
		Role:   string(caller.Role),
		Name:   caller.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   caller.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if caller.StationID != nil {
		sid := caller.StationID.String()
		claims.StationID = &sid
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) ParseToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(e.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: %w", e.ErrUnauthorized)
	}
	return claims, nil
}
