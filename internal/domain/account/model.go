// Package account defines provisioned account identities and the credential
// bundles they hold for each trading app integration.
package account

import "strings"

// CredentialBundle is an opaque set of app-specific secrets, e.g.
// {username, password} for the paper app or {address, privateKey} for solana.
// Bundles must never appear in command results or logs; see Sanitize.
type CredentialBundle map[string]string

// Clone returns an independent copy of the bundle.
func (b CredentialBundle) Clone() CredentialBundle {
	if b == nil {
		return nil
	}
	out := make(CredentialBundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Account is a pre-provisioned identity. Accounts are loaded from
// configuration at startup and never created at runtime.
type Account struct {
	Name         string
	PasswordHash string
	Credentials  map[string]CredentialBundle
}

// CloneCredentials deep-copies the account's per-app credential map. Sessions
// take such a copy at creation so later rotation never mutates live sessions.
func (a Account) CloneCredentials() map[string]CredentialBundle {
	if a.Credentials == nil {
		return nil
	}
	out := make(map[string]CredentialBundle, len(a.Credentials))
	for app, bundle := range a.Credentials {
		out[app] = bundle.Clone()
	}
	return out
}

// Sanitize recursively removes any key containing "password" or "private"
// (case-insensitive) from data destined for a caller. Maps and slices are
// copied; scalars pass through unchanged.
func Sanitize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		clean := make(map[string]any, len(val))
		for k, inner := range val {
			if sensitiveKey(k) {
				continue
			}
			clean[k] = Sanitize(inner)
		}
		return clean
	case map[string]string:
		clean := make(map[string]string, len(val))
		for k, inner := range val {
			if sensitiveKey(k) {
				continue
			}
			clean[k] = inner
		}
		return clean
	case CredentialBundle:
		return Sanitize(map[string]string(val))
	case []any:
		clean := make([]any, 0, len(val))
		for _, inner := range val {
			clean = append(clean, Sanitize(inner))
		}
		return clean
	default:
		return v
	}
}

func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "password") || strings.Contains(lower, "private")
}
