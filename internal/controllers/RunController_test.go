package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"steamledger/internal/services"
	"steamledger/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerRun_Accepted(t *testing.T) {
	job := &mockJob{}
	rc := NewRunController(&testutil.MockLogger{}, job)

	rr := httptest.NewRecorder()
	rc.TriggerRun(rr, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"status":"started"}`, rr.Body.String())
	assert.Equal(t, 1, job.triggers)
}

func TestTriggerRun_Conflict(t *testing.T) {
	rc := NewRunController(&testutil.MockLogger{}, &mockJob{triggerErr: services.ErrRunInProgress})

	rr := httptest.NewRecorder()
	rc.TriggerRun(rr, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"status":"running"}`, rr.Body.String())
}

func TestTriggerRun_Failure(t *testing.T) {
	logger := &testutil.MockLogger{}
	rc := NewRunController(logger, &mockJob{triggerErr: errors.New("boom")})

	rr := httptest.NewRecorder()
	rc.TriggerRun(rr, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, logger.Count("error"))
}
