// Package cli provides draftctl, an interactive shell over the draft stores.
//
// It opens both namespaces on the configured storage backend, optionally
// behind a passphrase, and runs a REPL for inspecting and editing drafts:
// creating and opening form drafts, merging field values, following up on
// parent forms and staging attachments.
//
// The REPL is started via App.Run, which blocks until the user exits or the
// input ends. See runREPL for the command list.
package cli
