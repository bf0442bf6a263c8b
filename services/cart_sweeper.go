package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type IdleCartDeleter interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartSweeper evicts carts nobody has written for TTL.
type CartSweeper struct {
	Repo     IdleCartDeleter
	TTL      time.Duration
	Interval time.Duration
	Log      zerolog.Logger

	now func() time.Time
}

func NewCartSweeper(repo IdleCartDeleter, ttl, interval time.Duration, log zerolog.Logger) *CartSweeper {
	return &CartSweeper{Repo: repo, TTL: ttl, Interval: interval, Log: log, now: time.Now}
}

// Run sweeps every Interval until ctx is done.
func (s *CartSweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.Log.Error().Err(err).Msg("cart sweep failed")
			}
		}
	}
}

func (s *CartSweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.TTL)
	n, err := s.Repo.DeleteIdleBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("evicted idle carts")
	}
	return n, nil
}
