// Package client contains the CLI's building blocks for talking to the
// realestate API and for opening its local state database.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface): signup,
//     signin, OAuth-assisted signin, logout, profile and listing calls,
//     presigned upload tickets and a health probe.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that sends the
//     identity token as a bearer header and maps response statuses to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failed calls return an *APIError carrying the server's message. It
// matches one of ErrRejected, ErrUnauthorized, ErrForbidden, ErrNotFound or
// ErrServer with errors.Is. Transport failures match ErrUnavailable.
package client
