package session

import (
	"time"

	"github.com/ekato-labs/tradecore/internal/domain/account"
)

// Session binds an opaque token to an account and an immutable snapshot of
// its credential bundles taken at login. At most one live session exists per
// (account, client fingerprint) pair.
type Session struct {
	ID                string
	AccountName       string
	IssuedAt          time.Time
	ExpiresAt         time.Time
	ClientFingerprint string
	Credentials       map[string]account.CredentialBundle
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
