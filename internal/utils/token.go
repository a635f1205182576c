package utils // package utils provides helper functions for token issuing and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Token kinds carried in the "kind" claim.  The kind is an explicit claim
// rather than something inferred from the TTL: the auth service checks it so
// an access token can never be replayed as a refresh token.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, malformed structure, missing claims or
// expiry in the past.  Callers get no further detail on purpose.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the decoded contents of a signed token.
type Claims struct {
	UserID    uint64    // subject (sub)
	Kind      string    // "access" or "refresh"
	IssuedAt  time.Time // iat
	ExpiresAt time.Time // exp
}

// TokenCodec signs and verifies HS256 tokens.  It is stateless: issuing and
// verifying are pure functions of the secret, the inputs and the clock, with
// no I/O of any sort.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue builds and signs a token for a user.  The returned expiry is the
// same instant encoded in the exp claim, handed back so callers can persist
// or report it without re-parsing the token.
func (tc *TokenCodec) Issue(userID uint64, kind string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"kind": kind,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses a token string and returns its claims.  Expired, tampered
// and malformed tokens all come back as ErrInvalidToken.
func (tc *TokenCodec) Verify(token string) (Claims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64) // JWT numbers decode as float64
	if !ok || sub <= 0 {
		return Claims{}, ErrInvalidToken
	}
	kind, ok := mc["kind"].(string)
	if !ok || (kind != TokenKindAccess && kind != TokenKindRefresh) {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{UserID: uint64(sub), Kind: kind}
	if iat, ok := mc["iat"].(float64); ok {
		c.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	exp, ok := mc["exp"].(float64)
	if !ok {
		// A token without an expiry never dies; refuse it outright.
		return Claims{}, ErrInvalidToken
	}
	c.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	return c, nil
}
