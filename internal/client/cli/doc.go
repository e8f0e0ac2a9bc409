// Package cli provides the interactive Globetrotter command-line client.
//
// It wires configuration, the local session database, the API client and a
// REPL. A saved session is restored on start, so a restart does not require
// logging in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
