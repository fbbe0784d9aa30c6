// Package cli provides the interactive PassVault command-line client.
//
// It wires configuration, the local session store, the REST client and the
// password generator behind a small REPL. A saved session is restored at
// start; commands then talk to the server and report results as plain text.
//
// Commands:
//   - help, exit | quit
//   - register, login, logout, whoami
//   - passwd, deleteaccount
//   - generate [length]
//   - save, list [-s], delete [# | id]
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
