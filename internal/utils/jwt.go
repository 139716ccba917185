package utils // utils provides token and hashing helpers shared across the application

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/mmp/beacon-platform/internal/model"
)

// ErrInvalidToken is returned when a token fails signature, expiry or
// structural checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both access and refresh tokens. The
// registered subject holds the login id; UserID and Role are custom claims
// so that callers can authorize without a database round trip.
type Claims struct {
	UserID uint64     `json:"uid"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Token pairs a serialized JWT with its UTC expiration time.
type Token struct {
	Value string
	Exp   time.Time
}

// TokenIssuer builds and verifies HS256 JWTs with a process-wide secret.
// Access tokens are short-lived; refresh tokens use the same signing scheme
// with a longer TTL.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs an issuer. accessTTLMin is in minutes and
// refreshTTLDays in days, matching the configuration variables.
func NewTokenIssuer(secret string, accessTTLMin, refreshTTLDays int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// RefreshTTL exposes the refresh token lifetime so the session store can
// expire entries alongside the tokens they track.
func (ti *TokenIssuer) RefreshTTL() time.Duration { return ti.refreshTTL }

// IssueAccess signs a short-lived access token for the identity.
func (ti *TokenIssuer) IssueAccess(ident *model.Identity) (Token, error) {
	return ti.issue(ident, ti.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the identity. Issuing
// alone does not register a session; the caller stores the token in the
// session store.
func (ti *TokenIssuer) IssueRefresh(ident *model.Identity) (Token, error) {
	return ti.issue(ident, ti.refreshTTL)
}

func (ti *TokenIssuer) issue(ident *model.Identity, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		UserID: ident.ID,
		Role:   ident.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.LoginID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// Parse verifies signature and expiry and returns the decoded claims. It
// rejects tokens signed with any method other than HMAC.
func (ti *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ti.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate reports whether the token passes signature and expiry checks. It
// does not consult the session store.
func (ti *TokenIssuer) Validate(raw string) bool {
	_, err := ti.Parse(raw)
	return err == nil
}
