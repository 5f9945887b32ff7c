// Package dispatch resolves a session, app, and command name into a command
// invocation, converting every failure into a structured service error.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ekato-labs/tradecore/internal/domain/account"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/registry"
	"github.com/ekato-labs/tradecore/internal/session"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

// Dispatcher routes commands to registered apps on behalf of live sessions.
type Dispatcher struct {
	sessions *session.Store
	registry *registry.Registry
	log      *logger.Logger
}

// New constructs a dispatcher.
func New(sessions *session.Store, reg *registry.Registry, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewDefault("dispatch")
	}
	return &Dispatcher{sessions: sessions, registry: reg, log: log}
}

// Dispatch validates the session, resolves the app and its credentials from
// the session's snapshot, opens the app, and invokes the named command.
//
// Session and registry lookups happen before the command runs and no store
// lock is held during invocation, so a slow command blocks only its caller.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID, appName, commandName string, args map[string]any) (result any, err error) {
	if !d.sessions.Check(sessionID) {
		return nil, errors.Unauthorized("")
	}

	app, ok := d.registry.Get(appName)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("app %q not found, available: %v", appName, d.registry.List()))
	}

	creds := d.sessions.Credentials(sessionID)
	bundle, ok := creds[appName]
	if !ok {
		return nil, errors.Forbidden("no access to this app")
	}

	cmd, ok := registry.ParseCommand(commandName)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("command %q not found, available: %v", commandName, registry.Commands()))
	}

	// A command body must never take the process down or leak its failure
	// text to the caller.
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("app", appName).WithField("command", commandName).
				Errorf("command panic: %v", r)
			result, err = nil, errors.Internal(fmt.Errorf("panic: %v", r))
		}
	}()

	commands, err := app.Open(bundle)
	if err != nil {
		return nil, d.sanitize(appName, commandName, err)
	}

	fn, ok := commands[cmd]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("command %q not supported by app %q", commandName, appName))
	}

	out, err := fn(ctx, args)
	if err != nil {
		return nil, d.sanitize(appName, commandName, err)
	}
	return account.Sanitize(out), nil
}

// sanitize passes structured service errors through and hides everything
// else behind a generic internal error, logging the cause.
func (d *Dispatcher) sanitize(appName, commandName string, err error) error {
	if se := errors.GetServiceError(err); se != nil {
		return se
	}
	d.log.WithField("app", appName).WithField("command", commandName).
		WithError(err).Error("command failed")
	return errors.Internal(err)
}
