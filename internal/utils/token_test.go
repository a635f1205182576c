package utils

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	token, exp, err := codec.Issue(42, TokenKindAccess, 15*time.Minute)
	c.Assert(err, qt.IsNil)
	c.Assert(token, qt.Not(qt.Equals), "")
	c.Assert(exp.After(time.Now()), qt.IsTrue)

	claims, err := codec.Verify(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, uint64(42))
	c.Assert(claims.Kind, qt.Equals, TokenKindAccess)
	c.Assert(claims.ExpiresAt.Unix(), qt.Equals, exp.Unix())
}

func TestVerifyKindSurvivesRoundTrip(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	token, _, err := codec.Issue(7, TokenKindRefresh, time.Hour)
	c.Assert(err, qt.IsNil)

	claims, err := codec.Verify(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.Kind, qt.Equals, TokenKindRefresh)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	c := qt.New(t)
	token, _, err := NewTokenCodec("secret-a").Issue(1, TokenKindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = NewTokenCodec("secret-b").Verify(token)
	c.Assert(err, qt.Equals, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	token, _, err := codec.Issue(1, TokenKindAccess, -time.Minute)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(token)
	c.Assert(err, qt.Equals, ErrInvalidToken)
}

func TestVerifyRejectsTampered(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	token, _, err := codec.Issue(1, TokenKindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(token[:len(token)-2] + "xx")
	c.Assert(err, qt.Equals, ErrInvalidToken)

	_, err = codec.Verify("not-a-jwt")
	c.Assert(err, qt.Equals, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  1,
		"kind": TokenKindAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(token)
	c.Assert(err, qt.Equals, ErrInvalidToken)
}

func TestVerifyRejectsUnknownKind(t *testing.T) {
	c := qt.New(t)
	codec := NewTokenCodec("test-secret")

	token, _, err := codec.Issue(1, "session", time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(token)
	c.Assert(err, qt.Equals, ErrInvalidToken)
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	c := qt.New(t)
	secret := "test-secret"

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  1,
		"kind": TokenKindAccess,
	})
	token, err := raw.SignedString([]byte(secret))
	c.Assert(err, qt.IsNil)

	_, err = NewTokenCodec(secret).Verify(token)
	c.Assert(err, qt.Equals, ErrInvalidToken)
}
