// Package cli provides the interactive CloudBox command-line client.
//
// It wires configuration, the local identity cache, the HTTP API client,
// the session manager, the file store and the admin service into an
// interactive REPL. Typical flow: restore a cached session, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout with a persistent session cache
//   - List, upload, download, rename, comment, share and remove files
//   - Fetch publicly shared files without logging in
//   - Administrator commands: list users, grant/revoke rights, delete accounts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
