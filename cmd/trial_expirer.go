package main

import (
	"context"
	"log"
	"time"

	"dukanBack/internal/services"
)

const trialExpirerTimeout = 1 * time.Minute

// startTrialExpirer sweeps hourly, flipping trials past their end date to
// expired. Converted referrals are never touched.
func startTrialExpirer(ctx context.Context, svc *services.ReferralService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, trialExpirerTimeout)
			expired, err := svc.ExpireTrials(runCtx, time.Now().UTC())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("trial expirer: failed to expire trials: %v", err)
				}
			} else if expired > 0 && infoLog != nil {
				infoLog.Printf("trial expirer: marked %d trials expired", expired)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
