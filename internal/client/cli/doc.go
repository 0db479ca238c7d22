// Package cli is the interactive terminal client of the cahier de veille
// server.
//
// It signs in, then drives an editor.Editor through a small REPL: open or
// create a cahier, edit the communication rows, sort them, register the
// proposed call-signs, save, archive and export to PDF. A background watcher
// pings the server and reports when it goes away or comes back.
//
// The REPL is started with App.Run, which blocks until the user exits.
package cli
