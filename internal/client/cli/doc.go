// Package cli provides the interactive ExamKeeper command-line client.
//
// It wires configuration, local storage, the transport and the upload
// workflow behind a small REPL. In "api" mode a background watcher probes the
// server's gRPC health endpoint and shows online/offline in the prompt.
//
// Key features:
//   - Pick a PDF, review it, send it (or change it)
//   - Recent uploads with retry of failed attempts
//   - Clear the upload history
//   - List exams known to the backend
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
