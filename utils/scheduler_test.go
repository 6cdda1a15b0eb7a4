package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSchedulerRegistersJobs(t *testing.T) {
	log, _ := test.NewNullLogger()
	noop := func(context.Context) (int64, error) { return 0, nil }

	c, err := InitializeScheduler(log, []ScheduledJob{
		{Name: "purge tokens", Spec: "@hourly", Run: noop},
		{Name: "reminders", Spec: "0 9 * * *", Run: noop},
	})
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 2)
}

func TestInitializeSchedulerRejectsBadSpec(t *testing.T) {
	log, _ := test.NewNullLogger()

	_, err := InitializeScheduler(log, []ScheduledJob{{Name: "broken", Spec: "every tuesday"}})
	assert.ErrorContains(t, err, "schedule broken")
}

func TestRunJobLogsOutcome(t *testing.T) {
	log, hook := test.NewNullLogger()

	runJob(log, ScheduledJob{Name: "purge", Run: func(context.Context) (int64, error) { return 3, nil }})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "[SCHEDULER] purge done, 3 records", hook.LastEntry().Message)

	runJob(log, ScheduledJob{Name: "purge", Run: func(context.Context) (int64, error) { return 0, errors.New("db down") }})
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "purge", hook.LastEntry().Data["job"])
}
