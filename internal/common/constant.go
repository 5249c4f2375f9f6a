// Package common contains shared constants and sentinel errors used across
// JustAsk server components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the prefix of a bearer credential in AuthorizationHeaderName.
const BearerScheme = "Bearer "

// PhonePattern is the accepted format of a user's phone number: exactly 8 digits.
const PhonePattern = `^\d{8}$`

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6
