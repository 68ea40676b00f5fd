// Package cli provides the interactive taskkeeper command-line client.
//
// The REPL reads one command per line from stdin:
//
//	Not logged in:
//	  register, login, help, exit | quit
//
//	Logged in:
//	  me, add, list, show [id], status [id] [status], delete [id],
//	  unregister, logout, help, exit | quit
//
// Passwords are read without echo when stdin is a terminal.
package cli
