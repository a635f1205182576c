package service

import (
	"context"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/queue"
	"github.com/iliyamo/admin-panel-api/internal/repository"
	"github.com/iliyamo/admin-panel-api/internal/utils"
)

// fakeUserStore serves users from memory and records last-login updates.
type fakeUserStore struct {
	mu         sync.Mutex
	users      map[uint64]model.User
	lastLogins map[uint64]time.Time
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{
		users:      make(map[uint64]model.User),
		lastLogins: make(map[uint64]time.Time),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, id uint64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogins[id] = at
	return nil
}

// fakeTokenStore is an in-memory session ledger.  MarkUsed performs the same
// compare-and-set the SQL implementation does, under a mutex, so concurrent
// rotation behaves like the real thing.
type fakeTokenStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.UserToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: make(map[uint64]*model.UserToken)}
}

func (s *fakeTokenStore) Insert(_ context.Context, userID uint64, token string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.rows[s.nextID] = &model.UserToken{
		ID:        s.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *fakeTokenStore) FindByToken(_ context.Context, token string) (model.UserToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Token == token {
			return *r, nil
		}
	}
	return model.UserToken{}, repository.ErrNotFound
}

func (s *fakeTokenStore) MarkUsed(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.IsUsed {
		return false, nil
	}
	r.IsUsed = true
	return true, nil
}

func (s *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserID == userID {
			r.IsUsed = true
		}
	}
	return nil
}

func (s *fakeTokenStore) liveCount(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID && !r.IsUsed {
			n++
		}
	}
	return n
}

// fakeEvents collects published security events.
type fakeEvents struct {
	mu     sync.Mutex
	events []queue.SecurityEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.SecurityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}

func hashFor(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func newAuthFixture(t *testing.T, users ...model.User) (*AuthService, *fakeUserStore, *fakeTokenStore, *fakeEvents) {
	t.Helper()
	us := newFakeUserStore(users...)
	ts := newFakeTokenStore()
	ev := &fakeEvents{}
	svc := NewAuthService(utils.NewTokenCodec("test-secret"), us, ts, ev,
		15*time.Minute, 7*24*time.Hour)
	return svc, us, ts, ev
}

func activeUser(t *testing.T) model.User {
	return model.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hashFor(t, "s3cret"),
		IsActive:     true,
	}
}

func TestLoginIssuesPairAndStampsLastLogin(t *testing.T) {
	c := qt.New(t)
	svc, us, ts, ev := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)
	c.Assert(pair.AccessToken, qt.Not(qt.Equals), "")
	c.Assert(pair.RefreshToken, qt.Not(qt.Equals), "")
	c.Assert(pair.ExpiresIn, qt.Equals, int64(15*60))

	c.Assert(ts.liveCount(1), qt.Equals, 1)
	_, ok := us.lastLogins[1]
	c.Assert(ok, qt.IsTrue)
	c.Assert(ev.types(), qt.DeepEquals, []string{queue.EventLogin})
}

func TestLoginUnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	_, err1 := svc.Login(context.Background(), "nobody", "s3cret")
	_, err2 := svc.Login(context.Background(), "alice", "wrong")

	r1, ok := AuthReasonOf(err1)
	c.Assert(ok, qt.IsTrue)
	r2, ok := AuthReasonOf(err2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r1, qt.Equals, ReasonBadCredentials)
	c.Assert(r2, qt.Equals, ReasonBadCredentials)
	c.Assert(err1.Error(), qt.Equals, err2.Error())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	c := qt.New(t)
	u := activeUser(t)
	u.IsActive = false
	svc, _, ts, _ := newAuthFixture(t, u)

	_, err := svc.Login(context.Background(), "alice", "s3cret")
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonInactiveUser)
	c.Assert(ts.liveCount(1), qt.Equals, 0)
}

func TestRefreshRotatesToken(t *testing.T) {
	c := qt.New(t)
	svc, _, ts, _ := newAuthFixture(t, activeUser(t))

	first, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	c.Assert(err, qt.IsNil)
	c.Assert(second.RefreshToken, qt.Not(qt.Equals), first.RefreshToken)
	c.Assert(second.AccessToken, qt.Not(qt.Equals), "")

	// The presented token's row is now terminal; only the new one is live.
	rec, err := ts.FindByToken(context.Background(), first.RefreshToken)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.IsUsed, qt.IsTrue)
	c.Assert(ts.liveCount(1), qt.Equals, 1)
}

func TestRefreshReuseRevokesEverything(t *testing.T) {
	c := qt.New(t)
	svc, _, ts, ev := newAuthFixture(t, activeUser(t))

	first, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	c.Assert(err, qt.IsNil)

	// Presenting the rotated token again is the theft signal.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonTokenReused)

	// Every session of the user is dead, including the legitimate one.
	c.Assert(ts.liveCount(1), qt.Equals, 0)
	c.Assert(ev.types(), qt.DeepEquals, []string{
		queue.EventLogin, queue.EventTokenReuse, queue.EventTokensRevoked,
	})
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonInvalidToken)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	// Correctly signed but never recorded in the ledger.
	stray, _, err := utils.NewTokenCodec("test-secret").Issue(1, utils.TokenKindRefresh, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = svc.Refresh(context.Background(), stray)
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonInvalidToken)
}

func TestRefreshRejectsExpiredLedgerRow(t *testing.T) {
	c := qt.New(t)
	svc, _, ts, _ := newAuthFixture(t, activeUser(t))

	token, _, err := utils.NewTokenCodec("test-secret").Issue(1, utils.TokenKindRefresh, time.Hour)
	c.Assert(err, qt.IsNil)
	c.Assert(ts.Insert(context.Background(), 1, token, time.Now().UTC().Add(-time.Minute)), qt.IsNil)

	_, err = svc.Refresh(context.Background(), token)
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonExpiredToken)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	c := qt.New(t)
	svc, us, _, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	// The account is disabled between login and refresh.
	us.mu.Lock()
	u := us.users[1]
	u.IsActive = false
	us.users[1] = u
	us.mu.Unlock()

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	r, ok := AuthReasonOf(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r, qt.Equals, ReasonInactiveUser)
}

func TestLogoutIsIdempotent(t *testing.T) {
	c := qt.New(t)
	svc, _, ts, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	c.Assert(svc.Logout(context.Background(), pair.RefreshToken), qt.IsNil)
	c.Assert(ts.liveCount(1), qt.Equals, 0)
	c.Assert(svc.Logout(context.Background(), pair.RefreshToken), qt.IsNil)
	c.Assert(svc.Logout(context.Background(), "never-issued"), qt.IsNil)
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Logout(context.Background(), pair.RefreshToken), qt.IsNil)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	c.Assert(err, qt.IsNotNil)
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(context.Background(), pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	c.Assert(wins, qt.Equals, 1)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	c := qt.New(t)
	svc, _, _, _ := newAuthFixture(t, activeUser(t))

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	c.Assert(err, qt.IsNil)

	id, err := svc.VerifyAccess(pair.AccessToken)
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(1))

	_, err = svc.VerifyAccess(pair.RefreshToken)
	c.Assert(err, qt.IsNotNil)
}
