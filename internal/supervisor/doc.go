// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

/*
Package supervisor runs the long-lived Observa services under suture v4.

The tree has two layers so that a failing background job never takes the
HTTP server down with it:

	root ("observa")
	├── data ("data-layer")
	│   ├── store-gc          value log GC of the Badger store
	│   ├── cache-cleanup     expiry of cached report figures
	│   └── session-monitor   periodic session validity sweep
	└── api ("api-layer")
	    └── http-server

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog-backed slog handler.
*/
package supervisor
