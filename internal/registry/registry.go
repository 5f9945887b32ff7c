// Package registry maps trading-app names onto typed command sets. The
// registry is an explicitly constructed object passed to its consumers at
// startup; there is no process-wide registration.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ekato-labs/tradecore/internal/domain/account"
)

// App is a trading-app integration. Open builds the command set for one
// credential bundle; it must depend only on its argument, never on ambient
// session state. The returned commands may close over app-owned long-lived
// state (ledger, market engine), so opening per dispatch is cheap.
type App interface {
	Name() string
	Open(creds account.CredentialBundle) (CommandSet, error)
}

// Registry holds registered apps. Registration happens once at startup;
// lookups are concurrent.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]App
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{apps: make(map[string]App)}
}

// Register adds an app. Duplicate names are a wiring bug and fail loudly.
func (r *Registry) Register(app App) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := app.Name()
	if name == "" {
		return fmt.Errorf("registry: app with empty name")
	}
	if _, exists := r.apps[name]; exists {
		return fmt.Errorf("registry: app %q already registered", name)
	}
	r.apps[name] = app
	return nil
}

// MustRegister registers an app and panics on error. For static startup
// wiring where a duplicate is unrecoverable.
func (r *Registry) MustRegister(app App) {
	if err := r.Register(app); err != nil {
		panic(err)
	}
}

// Get returns a registered app by name.
func (r *Registry) Get(name string) (App, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[name]
	return app, ok
}

// List returns all registered app names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered apps.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}
