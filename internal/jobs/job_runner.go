package jobs

import (
	"toolrental-console/internal/config"
	"toolrental-console/internal/gateway"
	"toolrental-console/internal/logger"
)

// JobRunner coordinates the scheduled console jobs
type JobRunner struct {
	loans  gateway.LoanGateway
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(loans gateway.LoanGateway, cfg *config.Config) *JobRunner {
	return &JobRunner{
		loans:  loans,
		config: cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueLoans()
}
