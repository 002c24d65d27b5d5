package services

import (
	"context"
	"errors"
	"steamledger/internal/models"
	"steamledger/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	runs int
	err  error
}

func (c *countingJob) Run(context.Context) (*models.RunReport, error) {
	c.runs++
	return &models.RunReport{}, c.err
}

func (c *countingJob) Trigger(context.Context) error {
	return nil
}

func (c *countingJob) LastReport() *models.RunReport {
	return nil
}

func TestScheduler_RunJobLogsFailure(t *testing.T) {
	logger := &testutil.MockLogger{}
	job := &countingJob{err: errors.New("corrupt table")}
	s := &Scheduler{config: testConfig(), logger: logger, job: job}

	s.runJob()

	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_InitAndStop(t *testing.T) {
	conf := testConfig()
	conf.Schedule.At = "04:00"
	s := NewScheduler(conf, &testutil.MockLogger{}, &countingJob{})

	assert.NotPanics(t, func() {
		s.Init()
		s.Stop()
	})
}
