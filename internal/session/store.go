// Package session implements the in-memory session store and its expiry
// sweeper. Sessions are short-lived authorization grants keyed by opaque
// tokens; each holds an immutable snapshot of the account's credential
// bundles taken at login.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekato-labs/tradecore/internal/directory"
	"github.com/ekato-labs/tradecore/internal/domain/account"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

// Store holds live sessions. All mutations are serialized by a single mutex;
// the sweeper shares the same lock as request handlers.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	directory *directory.Directory
	ttl       time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// Option customizes store construction.
type Option func(*Store)

// WithClock injects a clock, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates an empty session store backed by the given directory.
func NewStore(dir *directory.Directory, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions:  make(map[string]*Session),
		directory: dir,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewDefault("session")
	}
	return s
}

// Create verifies the login and returns a session token. If a live session
// already exists for the same (account, fingerprint) it is renewed and its
// token returned; a live session under a different fingerprint is invalidated
// first (single active-origin policy).
func (s *Store) Create(name, password, fingerprint string) (string, error) {
	acct, err := s.directory.Verify(name, password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if sess.AccountName != acct.Name {
			continue
		}
		if sess.Expired(now) {
			delete(s.sessions, id)
			continue
		}
		if sess.ClientFingerprint == fingerprint {
			sess.ExpiresAt = now.Add(s.ttl)
			return sess.ID, nil
		}
		// Same account from a new origin: the old session dies.
		delete(s.sessions, id)
		s.log.WithField("account", acct.Name).Info("session invalidated by login from new origin")
	}

	sess := &Session{
		ID:                uuid.NewString(),
		AccountName:       acct.Name,
		IssuedAt:          now,
		ExpiresAt:         now.Add(s.ttl),
		ClientFingerprint: fingerprint,
		Credentials:       acct.CloneCredentials(),
	}
	s.sessions[sess.ID] = sess

	s.log.WithField("account", acct.Name).WithField("fingerprint", fingerprint).Info("session created")
	return sess.ID, nil
}

// Check reports whether a session exists and is unexpired. An expired session
// found here is evicted immediately, in addition to the sweeper's cadence.
func (s *Store) Check(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return false
	}
	return true
}

// Credentials returns the session's per-app credential bundle snapshot, or nil
// if the session is absent or expired. The returned map is a copy.
func (s *Store) Credentials(id string) map[string]account.CredentialBundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil
	}

	out := make(map[string]account.CredentialBundle, len(sess.Credentials))
	for app, bundle := range sess.Credentials {
		out[app] = bundle.Clone()
	}
	return out
}

// AccountName returns the account behind a live session.
func (s *Store) AccountName(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return "", errors.Unauthorized("")
	}
	return sess.AccountName, nil
}

// Renew extends a live session's expiry by the full TTL.
func (s *Store) Renew(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.ExpiresAt = s.now().Add(s.ttl)
	}
}

// Remove deletes a session. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep evicts every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// AccountData returns a sanitized view of the session's account: its name,
// and credential bundles with every password/private key scrubbed. Used by
// the account endpoint; never contains secrets.
func (s *Store) AccountData(id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil, errors.Unauthorized("")
	}

	apps := make([]string, 0, len(sess.Credentials))
	creds := make(map[string]any, len(sess.Credentials))
	for app, bundle := range sess.Credentials {
		apps = append(apps, app)
		creds[app] = account.Sanitize(bundle)
	}
	sort.Strings(apps)

	return map[string]any{
		"baseAccount":        map[string]any{"name": sess.AccountName},
		"apps":               apps,
		"accountCredentials": creds,
	}, nil
}
