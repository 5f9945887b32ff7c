package registry

import "context"

// Command is one operation in the canonical trading-app vocabulary. Using a
// typed enum instead of free-form strings lets the dispatcher reject unknown
// names before any app code runs.
type Command string

const (
	CmdGetBalance     Command = "getBalance"
	CmdGetPositions   Command = "getPositions"
	CmdGetOrders      Command = "getOrders"
	CmdPlaceOrder     Command = "placeOrder"
	CmdCancelOrder    Command = "cancelOrder"
	CmdAuthenticate   Command = "authenticate"
	CmdRefreshSession Command = "refreshSession"
	CmdInstantBuy     Command = "instantBuy"
	CmdInstantSell    Command = "instantSell"
)

// Commands returns the canonical command vocabulary every app is expected to
// support. Used for listings and error messages; apps may implement a subset,
// in which case the missing commands surface as not_found at dispatch time.
func Commands() []Command {
	return []Command{
		CmdGetBalance,
		CmdGetPositions,
		CmdGetOrders,
		CmdPlaceOrder,
		CmdCancelOrder,
		CmdAuthenticate,
		CmdRefreshSession,
		CmdInstantBuy,
		CmdInstantSell,
	}
}

// ParseCommand maps a wire-level command name onto the enum.
func ParseCommand(name string) (Command, bool) {
	for _, cmd := range Commands() {
		if string(cmd) == name {
			return cmd, true
		}
	}
	return "", false
}

// CommandFunc executes one command with caller-supplied arguments. The
// returned value must be JSON-serializable.
type CommandFunc func(ctx context.Context, args map[string]any) (any, error)

// CommandSet is the callable surface an app exposes for one credential bundle.
type CommandSet map[Command]CommandFunc
