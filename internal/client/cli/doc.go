// Package cli provides the interactive realestate command-line client.
//
// It wires configuration, the local session database, API services and an
// interactive REPL. On start the persisted session is restored, so a user
// who signed in earlier lands straight in the signed-in command set.
//
// Key features:
//   - Signup / Signin with email and password, or Google-assisted signin
//   - Profile view and update, profile picture upload
//   - Listing creation with concurrent image uploads and progress
//   - Sign out and account deletion
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
