/*
qbooauthtokenclient v0.2.0

https://github.com/rorycl/QBOauthTokenClient

Summary:

QBOauthTokenClient refreshes OAuth2 tokens for the QuickBooks Online
accounting service from Intuit, and normalises the OpenID Connect
userinfo profile for an authenticated company (realm).

The token package refreshes access tokens with a saved refresh token and
reports expiry with a safety buffer so that tokens are refreshed early.
Every failure is returned as a value rather than an error. Storing the
tokens is left to the caller.

The strategy package provides the uid, info, credentials and extra values
an authentication middleware needs after the authorization code exchange.

The command line can refresh a token, check an expiry, or run a small
sidecar http server offering the same operations.

This software is provided under an MIT licence, with no warranty.
*/

package main
