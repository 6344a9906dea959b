package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// DefaultTTL is the bearer token lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrExpired indicates the token was valid once but is past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid indicates the token is malformed or its signature fails.
	ErrInvalid = errors.New("invalid token")
)

// Claims carries the identity baked into a bearer token.
type Claims struct {
	UserID uint
	Email  string
	Role   models.Role
}

// Manager issues and verifies signed, time-limited bearer tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a token manager. ttl <= 0 selects DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Generate signs a token for the given account.
func (m *Manager) Generate(account *models.Account) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(account.ID), 10),
		"email": account.Email,
		"role":  string(account.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a token string, distinguishing expiry from malformation so
// the client knows whether to re-login or fix its request.
func (m *Manager) Parse(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return Claims{}, ErrInvalid
	}
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	claims := Claims{UserID: uint(userID)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = models.Role(role)
	}

	return claims, nil
}
