package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/queue"
	"github.com/iliyamo/admin-panel-api/internal/repository"
	"github.com/iliyamo/admin-panel-api/internal/utils"
)

// TokenPair is the result of a successful login or refresh.  ExpiresIn is
// the access-token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService orchestrates login, refresh rotation and logout.  Each issued
// refresh token gets one ledger row that moves through exactly two states:
// live (is_used=0) and rotated (is_used=1).  Rotated is terminal; presenting
// a rotated token again is treated as evidence of compromise.
type AuthService struct {
	codec      *utils.TokenCodec
	users      UserStore
	tokens     TokenStore
	events     EventPublisher
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(codec *utils.TokenCodec, users UserStore, tokens TokenStore, events EventPublisher, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		codec:      codec,
		users:      users,
		tokens:     tokens,
		events:     events,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login verifies credentials and issues a fresh token pair.  Unknown
// usernames and wrong passwords produce the same error so responses do not
// reveal which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, authErr(ReasonBadCredentials, "invalid username or password")
		}
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return TokenPair{}, authErr(ReasonBadCredentials, "invalid username or password")
	}
	if !user.IsActive {
		return TokenPair{}, authErr(ReasonInactiveUser, "account is disabled")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	s.publish(ctx, queue.SecurityEvent{
		Type:     queue.EventLogin,
		UserID:   user.ID,
		Username: user.Username,
	})
	return pair, nil
}

// Refresh rotates a refresh token: the presented token's ledger row is
// marked used and a brand-new pair is issued.  The same token can therefore
// never be exchanged twice; a second exchange is the reuse signal and
// revokes every live token of the user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil || claims.Kind != utils.TokenKindRefresh {
		return TokenPair{}, authErr(ReasonInvalidToken, "invalid refresh token")
	}

	rec, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Signature checks out but the ledger has no row: forged with a
			// leaked secret, or already purged.  Either way, reject.
			return TokenPair{}, authErr(ReasonInvalidToken, "invalid refresh token")
		}
		return TokenPair{}, err
	}

	if rec.IsUsed {
		return TokenPair{}, s.reuseDetected(ctx, rec)
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return TokenPair{}, authErr(ReasonExpiredToken, "refresh token expired")
	}

	rotated, err := s.tokens.MarkUsed(ctx, rec.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if !rotated {
		// Lost the compare-and-set: a concurrent refresh already rotated
		// this row.  Treat it exactly like a replay.
		return TokenPair{}, s.reuseDetected(ctx, rec)
	}

	user, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, authErr(ReasonInactiveUser, "account is disabled")
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, authErr(ReasonInactiveUser, "account is disabled")
	}

	return s.issuePair(ctx, user.ID)
}

// Logout marks the presented refresh token as used.  It succeeds whether or
// not the token is found so responses do not leak ledger state, and calling
// it twice with the same token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	rec, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if _, err := s.tokens.MarkUsed(ctx, rec.ID); err != nil {
		return err
	}
	s.publish(ctx, queue.SecurityEvent{
		Type:    queue.EventLogout,
		UserID:  rec.UserID,
		TokenID: rec.ID,
	})
	return nil
}

// VerifyAccess checks an access token and returns its subject.  Used by the
// request guard; it does not touch the ledger (access tokens are stateless).
func (s *AuthService) VerifyAccess(token string) (uint64, error) {
	claims, err := s.codec.Verify(token)
	if err != nil || claims.Kind != utils.TokenKindAccess {
		return 0, authErr(ReasonInvalidToken, "invalid access token")
	}
	return claims.UserID, nil
}

// issuePair mints an access/refresh pair and records the refresh token as a
// live ledger row.
func (s *AuthService) issuePair(ctx context.Context, userID uint64) (TokenPair, error) {
	access, _, err := s.codec.Issue(userID, utils.TokenKindAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.codec.Issue(userID, utils.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Insert(ctx, userID, refresh, refreshExp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

// reuseDetected handles a rotated token being presented again: log it,
// publish the security event, and kill every live token of the user so the
// attacker and the legitimate client both have to re-authenticate.
func (s *AuthService) reuseDetected(ctx context.Context, rec model.UserToken) error {
	log.Printf("auth: refresh token reuse detected user_id=%d token_id=%d", rec.UserID, rec.ID)
	s.publish(ctx, queue.SecurityEvent{
		Type:    queue.EventTokenReuse,
		UserID:  rec.UserID,
		TokenID: rec.ID,
		Detail:  "rotated refresh token presented again",
	})
	if err := s.tokens.RevokeAllForUser(ctx, rec.UserID); err != nil {
		log.Printf("auth: revoke all tokens failed user_id=%d: %v", rec.UserID, err)
	} else {
		s.publish(ctx, queue.SecurityEvent{
			Type:   queue.EventTokensRevoked,
			UserID: rec.UserID,
			Detail: "all live refresh tokens revoked after reuse detection",
		})
	}
	return authErr(ReasonTokenReused, "token reuse detected, please log in again")
}

func (s *AuthService) publish(ctx context.Context, ev queue.SecurityEvent) {
	if s.events == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	_ = s.events.Publish(ctx, ev) // best effort, never blocks the flow
}
