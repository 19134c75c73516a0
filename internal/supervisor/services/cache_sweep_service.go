// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// CacheSweeper drops expired cache entries. *recommend.Resource satisfies it.
type CacheSweeper interface {
	SweepCache() int
}

// CacheSweepService periodically collects expired recommendation results.
type CacheSweepService struct {
	cache    CacheSweeper
	interval time.Duration
	logger   zerolog.Logger
	swept    atomic.Int64
}

// NewCacheSweepService creates the sweeper. A non-positive interval falls
// back to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheSweepService(cache CacheSweeper, interval time.Duration, logger zerolog.Logger) *CacheSweepService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweepService{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-sweeper").Dur("interval", interval).Logger(),
	}
}

// Serve implements suture.Service.
func (s *CacheSweepService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *CacheSweepService) sweep() {
	removed := s.cache.SweepCache()
	if removed == 0 {
		return
	}
	total := s.swept.Add(int64(removed))
	s.logger.Debug().Int("removed", removed).Int64("total", total).Msg("expired cache entries dropped")
}

// Swept returns the number of entries removed since the service was created.
func (s *CacheSweepService) Swept() int64 {
	return s.swept.Load()
}

// String identifies the service in supervisor logs.
func (s *CacheSweepService) String() string {
	return "cache-sweeper"
}
