// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

/*
Package auth implements the portal's login and session validity rules.

A browser client owns a small key/value namespace, addressed by an opaque
client cookie, holding four keys:

  - isAuthenticated: "true" while logged in
  - sessionId: a random UUID issued at login
  - lastActivity: RFC 3339 time of the last route change
  - userRole: the role granted at login

A session is valid only when the first three keys are present and
lastActivity is younger than the configured maximum age (24h by default).
An invalid session is cleared on the spot. Monitor repeats the check for
every namespace on a fixed interval.

Key Components:

  - Storage, Backend: the key/value namespace and its memory and Badger
    implementations
  - Sessions: Check, Touch, Begin and Clear over one namespace
  - IdentityProvider, StaticProvider: credential check against a bcrypt
    hash taken from configuration
  - LoginService: login and logout outcomes (redirect and notification)
  - Monitor: the periodic validity sweep, run under a suture supervisor

There is no token issuance and no server-side revocation beyond clearing
the namespace.
*/
package auth
