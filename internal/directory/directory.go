// Package directory implements the static account directory used to verify
// logins and resolve per-app credential bundles.
package directory

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ekato-labs/tradecore/internal/config"
	"github.com/ekato-labs/tradecore/internal/domain/account"
	"github.com/ekato-labs/tradecore/internal/errors"
)

// Directory is a read-only lookup of provisioned accounts. It is populated
// once at startup; no accounts are created at runtime.
type Directory struct {
	accounts map[string]account.Account
}

// New builds a directory from provisioned account configuration. Plain-text
// passwords are hashed at load time; bcrypt hashes are taken as-is.
func New(provisioned []config.AccountConfig) (*Directory, error) {
	accounts := make(map[string]account.Account, len(provisioned))
	for _, ac := range provisioned {
		if ac.Name == "" {
			return nil, fmt.Errorf("account with empty name")
		}
		if _, exists := accounts[ac.Name]; exists {
			return nil, fmt.Errorf("duplicate account %q", ac.Name)
		}

		hash := ac.PasswordHash
		if hash == "" {
			if ac.Password == "" {
				return nil, fmt.Errorf("account %q: password or password_hash required", ac.Name)
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(ac.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("account %q: hash password: %w", ac.Name, err)
			}
			hash = string(hashed)
		}

		creds := make(map[string]account.CredentialBundle, len(ac.Credentials))
		for app, bundle := range ac.Credentials {
			creds[app] = account.CredentialBundle(bundle).Clone()
		}

		accounts[ac.Name] = account.Account{
			Name:         ac.Name,
			PasswordHash: hash,
			Credentials:  creds,
		}
	}
	return &Directory{accounts: accounts}, nil
}

// Verify checks a name/password pair against the directory. The bcrypt
// comparison is constant-time with respect to the stored hash. Unknown names
// and bad passwords are indistinguishable to the caller.
func (d *Directory) Verify(name, password string) (account.Account, error) {
	acct, ok := d.accounts[name]
	if !ok {
		// Burn a comparison so missing accounts cost the same as bad passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0xB9y1L1sy1S7Qx1bIs0S1a1a1a"), []byte(password))
		return account.Account{}, errors.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return account.Account{}, errors.InvalidCredentials()
	}
	return acct, nil
}

// Get returns an account by name.
func (d *Directory) Get(name string) (account.Account, bool) {
	acct, ok := d.accounts[name]
	return acct, ok
}

// Len returns the number of provisioned accounts.
func (d *Directory) Len() int {
	return len(d.accounts)
}
