// File: internal/jobs/position_compaction.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"linkfolio_backend/internal/config"
	"linkfolio_backend/internal/item"
)

// PositionCompactionJob periodically renumbers item lists whose positions
// have gaps left by deletes.
type PositionCompactionJob struct {
	itemService   item.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewPositionCompactionJob creates a new PositionCompactionJob.
func NewPositionCompactionJob(
	itemService item.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *PositionCompactionJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &PositionCompactionJob{
		itemService:   itemService,
		logger:        logger.Named("PositionCompactionJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *PositionCompactionJob) SetupAndStart() error {
	jobSpec := j.cfg.PositionCompactionJobSchedule // e.g. "@daily", "0 3 * * *"
	if jobSpec == "" {
		j.logger.Warn("Position compaction job schedule not defined (POSITION_COMPACTION_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule position compaction job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Position compaction job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *PositionCompactionJob) runJob() {
	j.logger.Info("Starting position compaction job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	compacted, err := j.itemService.CompactPositions(ctx)
	if err != nil {
		j.logger.Error("Position compaction job run failed", zap.Error(err))
	} else {
		j.logger.Info("Position compaction job run completed", zap.Int("creators_compacted", compacted))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *PositionCompactionJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping position compaction job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Position compaction job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Position compaction job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
