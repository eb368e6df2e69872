// Package common contains shared constants and sentinel errors used across
// the realestate server and client.
package common

// AccessTokenCookieName is the cookie that carries the identity token when
// the client does not send an Authorization header.
const AccessTokenCookieName = "access_token"

// BearerScheme is the Authorization header scheme for identity tokens.
const BearerScheme = "Bearer"
