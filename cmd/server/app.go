// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/tomtom215/observa/internal/api"
	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/authz"
	"github.com/tomtom215/observa/internal/cache"
	"github.com/tomtom215/observa/internal/config"
	"github.com/tomtom215/observa/internal/content"
	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/monitoring"
	"github.com/tomtom215/observa/internal/report"
	"github.com/tomtom215/observa/internal/store"
	"github.com/tomtom215/observa/internal/supervisor"
	"github.com/tomtom215/observa/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds everything main starts and stops.
type app struct {
	handler http.Handler
	server  *http.Server

	db        *store.DB
	backend   auth.Backend
	sessions  *auth.Sessions
	dataCache *cache.TTL[[]models.ReportData]
	closers   []func() error
}

// backends groups the storage chosen by cfg.Storage.Backend.
type backends struct {
	session    auth.Backend
	monitoring monitoring.Repository
	categories monitoring.CategoryStore
	content    content.Repository
}

func buildApp(cfg *config.Config) (*app, error) {
	a := &app{}

	b, err := a.openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.backend = b.session

	provider, err := auth.NewStaticProvider(auth.StaticProviderConfig{Accounts: accounts(cfg.Auth)})
	if err != nil {
		return nil, a.fail(fmt.Errorf("identity provider: %w", err))
	}
	a.sessions = auth.NewSessions(cfg.Auth.SessionMaxAge)

	routes, err := authz.NewRouteTable(authz.DefaultRoutes())
	if err != nil {
		return nil, a.fail(fmt.Errorf("route table: %w", err))
	}

	renderer := report.NewGuardedRenderer(
		report.NewRodRenderer(report.RodConfig{
			Bin:       cfg.Report.ChromeBin,
			NoSandbox: cfg.Report.NoSandbox,
			Timeout:   cfg.Report.RenderTimeout,
		}),
		report.GuardConfig{
			LaunchesPerSecond: cfg.Report.LaunchesPerSecond,
			Burst:             cfg.Report.LaunchBurst,
			MaxFailures:       cfg.Report.BreakerFailures,
			OpenTimeout:       cfg.Report.BreakerTimeout,
		},
	)

	var source report.DataSource = report.NewSyntheticSource(nil)
	if cfg.Report.DataCacheTTL > 0 {
		a.dataCache = cache.New[[]models.ReportData](cfg.Report.DataCacheTTL)
		source = report.NewCachedSource(source, a.dataCache)
	}

	handler := api.NewHandler(api.Deps{
		Login:       auth.NewLoginService(provider, a.sessions, logging.NewSecurityLogger()),
		Sessions:    a.sessions,
		Routes:      routes,
		Reports:     report.NewService(report.NewBuilder(renderer), source),
		Monitorings: monitoring.NewService(b.monitoring, b.categories),
		Analyzer:    monitoring.NewAnalyzer(nil),
		Contents:    content.NewService(b.content),
		Version:     version,
	})

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security))
	session := api.NewSessionMiddleware(b.session, a.sessions, cfg.Auth.ClientCookie, cfg.Auth.CookieSecure)
	a.handler = api.NewRouter(handler, session, mw).SetupChi()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	a.server = services.NewServer(addr, a.handler, cfg.Server.Timeout)
	return a, nil
}

func accounts(cfg config.AuthConfig) []auth.Account {
	all := cfg.AllAccounts()
	out := make([]auth.Account, 0, len(all))
	for _, acc := range all {
		out = append(out, auth.Account{
			Email:        acc.Email,
			PasswordHash: acc.PasswordHash,
			Name:         acc.Name,
			Role:         acc.Role,
		})
	}
	return out
}

func (a *app) openStorage(cfg config.StorageConfig) (*backends, error) {
	if cfg.Backend != "badger" {
		logging.Warn().Str("backend", cfg.Backend).Msg("Using in-memory storage; data is lost on restart")
		return &backends{
			session:    auth.NewMemoryBackend(),
			monitoring: monitoring.NewMemoryRepository(),
			categories: monitoring.NewMemoryCategoryStore(),
			content:    content.NewMemoryRepository(),
		}, nil
	}

	db, err := store.Open(store.Config{Path: cfg.Path, GCInterval: cfg.GCInterval})
	if err != nil {
		return nil, err
	}
	a.db = db

	repo, err := monitoring.NewBadgerRepository(db.Badger())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closers = append(a.closers, repo.Close)

	return &backends{
		session:    auth.NewBadgerBackend(db.Badger()),
		monitoring: repo,
		categories: monitoring.NewBadgerCategoryStore(db.Badger()),
		content:    content.NewBadgerRepository(db.Badger()),
	}, nil
}

// supervise adds the background services and the HTTP server to tree.
func (a *app) supervise(tree *supervisor.Tree, cfg *config.Config) {
	if a.db != nil {
		tree.AddDataService(a.db)
	}
	if a.dataCache != nil {
		tree.AddDataService(a.dataCache)
	}
	tree.AddDataService(auth.NewMonitor(a.backend, a.sessions, cfg.Auth.CheckInterval, nil))
	tree.AddAPIService(services.NewHTTPServerService(a.server, cfg.Server.ShutdownTimeout))
}

// Close releases storage. Call after the tree has stopped.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *app) fail(err error) error {
	if cerr := a.Close(); cerr != nil {
		logging.Warn().Err(cerr).Msg("Failed to release storage")
	}
	return err
}
