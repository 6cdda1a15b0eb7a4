package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds a single scheduled run
const jobTimeout = 5 * time.Minute

// ScheduledJob is a periodic maintenance task. Run reports how many records
// it touched.
type ScheduledJob struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int64, error)
}

// InitializeScheduler registers jobs on a new cron runner and starts it. The
// caller stops the returned runner on shutdown.
func InitializeScheduler(log logrus.FieldLogger, jobs []ScheduledJob) (*cron.Cron, error) {
	log = log.WithField("category", "SCHEDULER")
	log.Info("[SCHEDULER] Initializing scheduler...")

	c := cron.New()
	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.Spec, func() { runJob(log, job) }); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.Name, err)
		}
		log.Infof("[SCHEDULER] %s scheduled (%s)", job.Name, job.Spec)
	}

	c.Start()
	log.Infof("[SCHEDULER] Scheduler started with %d jobs", len(jobs))
	return c, nil
}

func runJob(log logrus.FieldLogger, job ScheduledJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job.Run(ctx)
	entry := log.WithFields(logrus.Fields{"job": job.Name, "duration": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Errorf("[SCHEDULER] %s failed", job.Name)
		return
	}
	entry.Infof("[SCHEDULER] %s done, %d records", job.Name, n)
}
