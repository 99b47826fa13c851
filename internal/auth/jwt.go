package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

type Manager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// Claims identify a user; Subject holds the user id.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the subject of a token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (m *Manager) newToken(id Identity, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:  id.Role,
		Email: id.Email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) NewAccessToken(id Identity) (string, error) {
	return m.newToken(id, TokenAccess, m.AccessTTL)
}

func (m *Manager) NewRefreshToken(id Identity) (string, error) {
	return m.newToken(id, TokenRefresh, m.RefreshTTL)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseAs parses a token and checks it was issued for the given use.
func (m *Manager) ParseAs(tokenStr, typ string) (*Claims, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}
}
