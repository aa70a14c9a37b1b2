// internal/room/sweeper.go
package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweep periodically purges idle rooms until ctx is cancelled. Eviction is
// silent; affected clients just stop receiving broadcasts.
func Sweep(ctx context.Context, store Store, interval, maxIdle time.Duration, log *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.DeleteIdle(maxIdle); n > 0 {
				log.WithField("evicted", n).Info("idle room sweep")
			}
		}
	}
}
