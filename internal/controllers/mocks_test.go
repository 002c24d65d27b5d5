package controllers

import (
	"context"
	"steamledger/internal/models"
)

type mockJob struct {
	last       *models.RunReport
	triggerErr error
	triggers   int
}

func (m *mockJob) Run(context.Context) (*models.RunReport, error) {
	return m.last, nil
}

func (m *mockJob) Trigger(context.Context) error {
	m.triggers++
	return m.triggerErr
}

func (m *mockJob) LastReport() *models.RunReport {
	return m.last
}
