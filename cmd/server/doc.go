// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

/*
Package main is the entry point for the Observa server.

Observa is a media monitoring portal: operators register monitoring
subjects, review submitted content and export performance reports as PDF,
HTML or JSON.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("observa")
	├── DataSupervisor ("data-layer")
	│   ├── store-gc (BadgerDB value log GC, badger backend only)
	│   ├── cache-cleanup (expiry of cached report figures)
	│   └── session-monitor (periodic session validity sweep)
	└── APISupervisor ("api-layer")
	    └── http-server (Chi router)

Initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Storage: BadgerDB, or in-memory when STORAGE_BACKEND=memory
 4. Authentication: single bcrypt credential from configuration
 5. Reports: headless Chromium renderer behind a rate limiter and breaker
 6. Router: Chi with CORS, rate limiting and session middleware
 7. Supervisor tree

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	ADMIN_EMAIL=ops@example.com
	ADMIN_PASSWORD_HASH=<bcrypt hash>

	STORAGE_BACKEND=badger       # badger or memory
	STORAGE_PATH=/data/observa

	CHROME_BIN=/usr/bin/chromium

# Signal Handling

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests within the shutdown timeout, then storage is closed and any
service that failed to stop is reported.
*/
package main
