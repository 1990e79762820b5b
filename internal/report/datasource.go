// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/observa/internal/cache"
	"github.com/tomtom215/observa/internal/models"
)

// DataSource supplies per-source report data for a period.
type DataSource interface {
	ReportData(ctx context.Context, sourceIDs []string, period models.DateRange) ([]models.ReportData, error)
}

// SyntheticSource generates plausible random figures for each requested
// source. It stands in for a real monitoring pipeline.
type SyntheticSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticSource creates a source. A nil rng uses a randomly seeded one.
func NewSyntheticSource(rng *rand.Rand) *SyntheticSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SyntheticSource{rng: rng}
}

// ReportData implements DataSource. Sources are returned in request order;
// ids outside the catalogue are reported under a generic name.
func (s *SyntheticSource) ReportData(_ context.Context, sourceIDs []string, _ models.DateRange) ([]models.ReportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ReportData, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		name, typ := "Fonte "+id, "website"
		for _, src := range models.ReportSources {
			if src.ID == id {
				name, typ = src.Name, src.Type
				break
			}
		}

		errorRate := s.between(0, 2)
		out = append(out, models.ReportData{
			ID:   id,
			Type: typ,
			Name: name,
			Metrics: models.SourceMetrics{
				Uptime:       s.between(98, 100),
				ResponseTime: s.between(150, 450),
				ErrorRate:    errorRate,
				Availability: s.between(97, 100),
				SuccessRate:  round1(100 - errorRate),
			},
			Alerts: models.AlertCounts{
				Critical: s.rng.IntN(3),
				Warning:  s.rng.IntN(8),
				Info:     s.rng.IntN(15),
			},
			Performance: models.Performance{
				CPU:    s.between(10, 90),
				Memory: s.between(20, 85),
				Disk:   s.between(30, 95),
			},
			Content: models.ContentChanges{
				TotalItems: 100 + s.rng.IntN(900),
				NewItems:   s.rng.IntN(100),
				Sentiment:  s.between(40, 90),
			},
		})
	}
	return out, nil
}

// between returns a value in [lo, hi) rounded to one decimal.
func (s *SyntheticSource) between(lo, hi float64) float64 {
	return round1(lo + s.rng.Float64()*(hi-lo))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// CachedSource memoizes another source per (sources, period), so repeated
// exports of the same report agree until the entry expires.
type CachedSource struct {
	inner DataSource
	cache *cache.TTL[[]models.ReportData]
}

// NewCachedSource wraps inner with c.
func NewCachedSource(inner DataSource, c *cache.TTL[[]models.ReportData]) *CachedSource {
	return &CachedSource{inner: inner, cache: c}
}

type sourceKey struct {
	Sources []string         `json:"sources"`
	Period  models.DateRange `json:"period"`
}

// ReportData implements DataSource. Errors are not cached.
func (s *CachedSource) ReportData(ctx context.Context, sourceIDs []string, period models.DateRange) ([]models.ReportData, error) {
	key := cache.GenerateKey("report-data", sourceKey{Sources: sourceIDs, Period: period})
	if data, ok := s.cache.Get(key); ok {
		return cloneData(data), nil
	}
	data, err := s.inner.ReportData(ctx, sourceIDs, period)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, cloneData(data))
	return data, nil
}

func cloneData(in []models.ReportData) []models.ReportData {
	return append([]models.ReportData(nil), in...)
}
