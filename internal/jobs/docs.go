// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, schedules carry a seconds field).
//
// # Available Jobs
//
// ReconciliationJob lists orders created within the lookback window whose payment
// should be checked and reconciles them as the system actor. The default schedule is
// every fifteen minutes ("0 */15 * * * *").
//
// # Usage
//
//	job := jobs.NewReconciliationJob(candidatesHandler, reconcileHandler, jobs.ReconciliationJobConfig{
//		Schedule: cfg.ReconcileSchedule,
//	}, kernel.SystemClock{}, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next run starts from a fresh candidate list. Panics
// inside a run are recovered, and a run still going when the next is due makes the
// next one skip.
package jobs
