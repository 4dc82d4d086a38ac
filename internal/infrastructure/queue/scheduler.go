package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"fundacion-portal-backend/internal/domains/wizard/job"
	"fundacion-portal-backend/pkg/logger"
)

// Scheduler registers the periodic maintenance tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redis asynq.RedisClientOpt) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(redis, &asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		}),
	}
}

// RegisterJobs wires every cron entry. The staging sweep runs every 30
// minutes: staged uploads only become garbage when their session's TTL
// lapses, so there is no urgency.
func (s *Scheduler) RegisterJobs() error {
	entryID, err := s.scheduler.Register(
		"*/30 * * * *",
		asynq.NewTask(job.TypeStagingSweep, nil),
		asynq.Queue("low"),
	)
	if err != nil {
		return err
	}
	logger.Info("registered staging sweep", map[string]interface{}{"entry": entryID})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
