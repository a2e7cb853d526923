// Package session owns the signed-in state of the console: the credential,
// the identity it belongs to, and the subscribers that follow changes.
//
// Store is the only writer of that state. Every transition is persisted,
// swapped in memory and announced to subscribers as one step, so each
// subscriber observes transitions exactly once and in order. Network calls
// to the identity provider happen outside that step.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/token"
	"github.com/dmitrijs2005/stockyard/internal/common"
	"github.com/dmitrijs2005/stockyard/internal/logging"
)

// DefaultPasswordPaths are the password-change endpoints tried in order.
var DefaultPasswordPaths = []string{
	"/auth/change-password",
	"/auth/update-password",
	"/auth/password",
	"/users/change-password",
}

// ErrNoPasswordPaths is returned by ChangePassword when no endpoint is
// configured.
var ErrNoPasswordPaths = errors.New("no password change endpoints configured")

// Provider is the identity provider the store talks to.
type Provider interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*models.LoginResponse, error)
	ChangePassword(ctx context.Context, path string, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error)
}

// Freshness tells whether a credential is about to expire.
type Freshness interface {
	IsExpiringSoon(tok string) bool
}

// Store holds the current session.
type Store struct {
	provider      Provider
	storage       Storage
	fresh         Freshness
	logger        logging.Logger
	passwordPaths []string
	now           func() time.Time

	// commitMu serialises persist + swap + notify.
	commitMu sync.Mutex

	mu     sync.Mutex
	rec    Record
	subs   map[int]func(models.Session)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

func WithFreshness(f Freshness) Option { return func(s *Store) { s.fresh = f } }

func WithLogger(l logging.Logger) Option { return func(s *Store) { s.logger = l } }

// WithPasswordPaths replaces DefaultPasswordPaths.
func WithPasswordPaths(paths ...string) Option {
	return func(s *Store) { s.passwordPaths = append([]string(nil), paths...) }
}

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore builds a Store and hydrates it from storage. A record that
// cannot be loaded is logged and the store starts anonymous.
func NewStore(ctx context.Context, provider Provider, storage Storage, opts ...Option) *Store {
	s := &Store{
		provider:      provider,
		storage:       storage,
		fresh:         token.NewEvaluator(),
		logger:        logging.Nop(),
		passwordPaths: DefaultPasswordPaths,
		now:           time.Now,
		subs:          make(map[int]func(models.Session)),
	}
	for _, o := range opts {
		o(s)
	}

	rec, err := storage.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stored session ignored", "error", err)
		return s
	}
	s.rec = rec
	if rec.Credential != "" {
		s.logger.Debug(ctx, "session restored", "email", emailOf(rec.Identity))
	}
	return s
}

func emailOf(id *models.Identity) string {
	if id == nil {
		return ""
	}
	return id.Email
}

func cloneIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

func (s *Store) snapshot(rec Record) models.Session {
	return models.Session{
		Identity:      cloneIdentity(rec.Identity),
		Credential:    rec.Credential,
		ExpiresAt:     rec.ExpiresAt,
		Authenticated: rec.Credential != "" && rec.Identity != nil && !s.fresh.IsExpiringSoon(rec.Credential),
	}
}

// Current returns the session as of now. Authenticated is re-evaluated on
// every call, so a session silently goes stale as its credential ages.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.rec)
}

// Subscribe registers fn for every future transition and returns a func
// that removes it. fn runs synchronously on the goroutine that caused the
// transition and must not call mutating Store methods. Every successful
// Login is delivered; other calls that leave the session as it was are not.
func (s *Store) Subscribe(fn func(models.Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

type commitOpts struct {
	// force swaps the record in even when persist fails
	force bool
	// always notifies even when the record did not change
	always bool
}

// commit builds the next record from the current one, persists it, swaps
// it in and notifies subscribers when the record changed. It reports
// whether it did.
func (s *Store) commit(ctx context.Context, build func(prev Record) (Record, error), persist func(context.Context, Record) error, o commitOpts) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	prev := s.rec
	s.mu.Unlock()

	next, err := build(prev)
	if err != nil {
		return false, err
	}
	err = persist(ctx, next)
	if err != nil && !o.force {
		return false, err
	}

	s.mu.Lock()
	s.rec = next
	snap := s.snapshot(next)
	subs := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	changed := !sameRecord(prev, next)
	if changed || o.always {
		for _, fn := range subs {
			fn(snap)
		}
	}
	return changed, err
}

func (s *Store) persist(ctx context.Context, r Record) error { return s.storage.Save(ctx, r) }

func (s *Store) erase(ctx context.Context, _ Record) error { return s.storage.Clear(ctx) }

func anonymous(Record) (Record, error) { return Record{}, nil }

func sameRecord(a, b Record) bool {
	if a.Credential != b.Credential || !a.ExpiresAt.Equal(b.ExpiresAt) {
		return false
	}
	if a.Identity == nil || b.Identity == nil {
		return a.Identity == b.Identity
	}
	return sameIdentity(*a.Identity, *b.Identity)
}

func sameIdentity(a, b models.Identity) bool {
	eqTime := func(x, y *time.Time) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Equal(*y)
	}
	return a.ID == b.ID && a.Email == b.Email && a.Role == b.Role &&
		eqTime(a.CreatedAt, b.CreatedAt) && eqTime(a.UpdatedAt, b.UpdatedAt)
}

func (s *Store) recordFrom(resp *models.LoginResponse, fallback *models.Identity) Record {
	rec := Record{Credential: resp.Token, Identity: cloneIdentity(resp.User)}
	if rec.Identity == nil {
		rec.Identity = cloneIdentity(fallback)
	}
	if resp.ExpiresIn > 0 {
		rec.ExpiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Truncate(time.Millisecond)
	}
	return rec
}

// Login authenticates with the identity provider. On failure the session
// is left untouched and the provider's error is returned.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	resp, err := s.provider.Login(ctx, req)
	if err != nil {
		s.logger.Info(ctx, "login failed", "email", req.Email, "error", err)
		return models.Session{}, err
	}

	rec := s.recordFrom(resp, nil)
	build := func(Record) (Record, error) { return rec, nil }
	// a repeated login is still announced
	if _, err := s.commit(ctx, build, s.persist, commitOpts{always: true}); err != nil {
		return models.Session{}, err
	}
	s.logger.Info(ctx, "signed in", "email", emailOf(rec.Identity))
	return s.Current(), nil
}

// Logout notifies the provider when a credential is held, then clears the
// session whatever the provider answered. The returned error only reports
// a failure to clear durable storage; memory is cleared regardless.
func (s *Store) Logout(ctx context.Context) error {
	if s.Current().Credential != "" {
		if err := s.provider.Logout(ctx); err != nil {
			s.logger.Warn(ctx, "backend logout failed", "error", err)
		}
	}
	changed, err := s.commit(ctx, anonymous, s.erase, commitOpts{force: true})
	if err != nil {
		s.logger.Error(ctx, "clearing stored session failed", "error", err)
	}
	if changed {
		s.logger.Info(ctx, "signed out")
	}
	return err
}

// Invalidate clears the session without contacting the provider. Clearing
// an anonymous session does nothing.
func (s *Store) Invalidate(ctx context.Context, reason string) {
	changed, err := s.commit(ctx, anonymous, s.erase, commitOpts{force: true})
	if err != nil {
		s.logger.Error(ctx, "clearing stored session failed", "error", err)
	}
	if changed {
		s.logger.Warn(ctx, "session cleared", "reason", reason)
	}
}

// Refresh swaps the credential for a new one. Any failure clears the
// session.
func (s *Store) Refresh(ctx context.Context) (models.Session, error) {
	cur := s.Current()
	if cur.Credential == "" {
		return cur, common.ErrNoCredential
	}

	resp, err := s.provider.Refresh(ctx)
	if err != nil {
		s.Invalidate(ctx, "refresh failed: "+err.Error())
		return s.Current(), err
	}

	build := func(prev Record) (Record, error) {
		if prev.Credential == "" {
			return prev, common.ErrNoCredential
		}
		return s.recordFrom(resp, prev.Identity), nil
	}
	if _, err := s.commit(ctx, build, s.persist, commitOpts{}); err != nil {
		if !errors.Is(err, common.ErrNoCredential) {
			s.Invalidate(ctx, "refresh not persisted: "+err.Error())
		}
		return s.Current(), err
	}
	s.logger.Debug(ctx, "credential refreshed", "email", emailOf(cur.Identity))
	return s.Current(), nil
}

// Revalidate refreshes a held credential that is about to expire. It
// returns the resulting session; a failed refresh leaves it anonymous.
func (s *Store) Revalidate(ctx context.Context) (models.Session, error) {
	cur := s.Current()
	if cur.Credential == "" || !s.fresh.IsExpiringSoon(cur.Credential) {
		return cur, nil
	}
	s.logger.Info(ctx, "credential expiring, refreshing")
	return s.Refresh(ctx)
}

// UpdateIdentity replaces the cached identity of a signed-in session.
func (s *Store) UpdateIdentity(ctx context.Context, id models.Identity) error {
	build := func(prev Record) (Record, error) {
		if prev.Credential == "" {
			return prev, common.ErrNoCredential
		}
		prev.Identity = cloneIdentity(&id)
		return prev, nil
	}
	_, err := s.commit(ctx, build, s.persist, commitOpts{})
	return err
}

// ChangePassword tries each configured endpoint in order and stops at the
// first success. A network failure is retried once on the same endpoint
// before moving on. When every endpoint fails the last error is returned,
// and the session is cleared if that error is a 401 or 403.
func (s *Store) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error) {
	if len(s.passwordPaths) == 0 {
		return nil, ErrNoPasswordPaths
	}
	if s.Current().Credential == "" {
		return nil, common.ErrNoCredential
	}

	// keep the credential across candidates; a 401/403 on one path only
	// clears the session once no path is left
	pctx := client.DeferAuthFailure(ctx)

	var lastErr error
	for _, p := range s.passwordPaths {
		s.logger.Debug(ctx, "trying password endpoint", "path", p)
		resp, err := s.provider.ChangePassword(pctx, p, req)
		if err != nil && client.IsNetwork(err) && ctx.Err() == nil {
			resp, err = s.provider.ChangePassword(pctx, p, req)
		}
		if err == nil {
			if resp.User != nil {
				if uerr := s.UpdateIdentity(ctx, *resp.User); uerr != nil {
					s.logger.Warn(ctx, "updated identity not persisted", "error", uerr)
				}
			}
			return resp, nil
		}
		s.logger.Warn(ctx, "password endpoint failed", "path", p, "error", err)
		lastErr = err
	}
	if client.IsAuthFailure(lastErr) {
		s.Invalidate(ctx, "password change rejected: "+lastErr.Error())
	}
	return nil, lastErr
}
