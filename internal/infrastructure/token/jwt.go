package token

import (
	"errors"
	"fmt"
	"time"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 session tokens.
type JWTManager struct {
	issuer string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(issuer, signingKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		issuer: issuer,
		secret: []byte(signingKey),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) Mint(userID string, role user.Role) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

func (m *JWTManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Principal turns a bearer token into the caller identity the access policy works on.
func (m *JWTManager) Principal(tokenString string) (*access.Principal, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &access.Principal{ID: claims.UserID, Role: role}, nil
}
