package jobs

import (
	"context"
	"time"

	"toolrental-console/internal/logger"
)

// MarkOverdueLoans asks the backend to flag in-process loans past their return date
func (jr *JobRunner) MarkOverdueLoans() {
	jr.runWithRecovery("MarkOverdueLoans", func() {
		ctx := context.Background()
		if secs := jr.config.API.TimeoutSeconds; secs > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
			defer cancel()
		}

		start := time.Now()
		if err := jr.loans.MarkOverdueLoans(ctx); err != nil {
			logger.Error("Failed to mark overdue loans", "error", err)
			return
		}
		logger.Info("Overdue loans refreshed", "duration_ms", time.Since(start).Milliseconds())
	})
}
