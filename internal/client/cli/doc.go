// Package cli provides the interactive stockyard console.
//
// It wires configuration, the local session store, the REST client and the
// application services behind a REPL. Every console command is a route:
// protected routes revalidate the credential and pass the authorizer's guard
// before they run, so an anonymous user is sent through the login flow and a
// user without the required role is refused.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// NewRootCmd exposes the same routes as one-shot cobra subcommands.
package cli
