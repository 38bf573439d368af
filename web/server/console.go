package server

import (
	"context"
	"time"
)

// WatchConsole polls the region file and logs progress until the renderer
// sets the final flag or the context is canceled. Used by the monitor's
// -console mode when no browser is wanted.
func (s *Server) WatchConsole(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastPercent := -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		region, err := s.openRegion()
		if err != nil {
			// The renderer may not have created the region yet.
			continue
		}
		percent := int(region.Progress())
		final := region.Final()
		done := region.TilesDone()
		region.Close()

		if percent != lastPercent {
			s.log.Infof("render %d%% (%d/%d tiles)", percent, done, s.layout.Tiles())
			lastPercent = percent
		}
		if final {
			s.log.Infof("render complete")
			return nil
		}
	}
}
