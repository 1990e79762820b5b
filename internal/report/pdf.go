// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/metrics"
)

// PDFRenderer converts an HTML document to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// A4 paper and 20mm margins, in inches as the DevTools protocol expects.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 20.0 / 25.4
)

// RodConfig configures the headless Chromium renderer.
type RodConfig struct {
	// Bin is the Chromium binary. Empty lets the launcher find or fetch one.
	Bin string
	// NoSandbox disables the Chromium sandbox, needed in most containers.
	NoSandbox bool
	// Timeout bounds a single render, launch included.
	Timeout time.Duration
}

// RodRenderer prints HTML to PDF with a fresh headless Chromium per call.
// A launch failure is returned to the caller as is; nothing is retried.
type RodRenderer struct {
	cfg RodConfig
}

// NewRodRenderer creates a renderer. Chromium is not started until the
// first RenderPDF call.
func NewRodRenderer(cfg RodConfig) *RodRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &RodRenderer{cfg: cfg}
}

// RenderPDF implements PDFRenderer.
func (r *RodRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(true).NoSandbox(r.cfg.NoSandbox)
	if r.cfg.Bin != "" {
		l = l.Bin(r.cfg.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close chromium")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      ptr(a4WidthInches),
		PaperHeight:     ptr(a4HeightInches),
		MarginTop:       ptr(marginInches),
		MarginBottom:    ptr(marginInches),
		MarginLeft:      ptr(marginInches),
		MarginRight:     ptr(marginInches),
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	defer stream.Close()

	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return out, nil
}

func ptr(f float64) *float64 { return &f }

// GuardConfig configures GuardedRenderer.
type GuardConfig struct {
	// LaunchesPerSecond and Burst bound how often the inner renderer runs.
	LaunchesPerSecond float64
	Burst             int
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// GuardedRenderer throttles and circuit-breaks another renderer. Every
// error it returns wraps ErrRenderFailed. It never retries a failed render.
type GuardedRenderer struct {
	inner   PDFRenderer
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewGuardedRenderer wraps inner.
func NewGuardedRenderer(inner PDFRenderer, cfg GuardConfig) *GuardedRenderer {
	if cfg.LaunchesPerSecond <= 0 {
		cfg.LaunchesPerSecond = 2
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	maxFailures := cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "pdf-renderer",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Context cancellation is the caller's doing, not an engine failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RendererBreakerState.Set(breakerStateValue(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("PDF renderer circuit breaker state changed")
		},
	})
	metrics.RendererBreakerState.Set(0)

	return &GuardedRenderer{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.LaunchesPerSecond), cfg.Burst),
		cb:      cb,
	}
}

// RenderPDF implements PDFRenderer.
func (g *GuardedRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for render slot: %w", ErrRenderFailed, err)
	}
	out, err := g.cb.Execute(func() ([]byte, error) {
		return g.inner.RenderPDF(ctx, html)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return out, nil
}

// State returns the breaker state, for health reporting.
func (g *GuardedRenderer) State() gobreaker.State {
	return g.cb.State()
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
