package controllers

import (
	"context"
	"errors"
	"net/http"
	"steamledger/internal/providers"
	"steamledger/internal/services"
)

type RunController struct {
	logger providers.Logger
	job    services.JobServiceInterface
}

func NewRunController(logger providers.Logger, job services.JobServiceInterface) *RunController {
	return &RunController{
		logger: logger,
		job:    job,
	}
}

type runResponse struct {
	Status string `json:"status"`
}

// TriggerRun starts a pass without waiting for it. The pass outlives the
// request, so it is detached from the request context.
func (rc *RunController) TriggerRun(w http.ResponseWriter, r *http.Request) {
	err := rc.job.Trigger(context.WithoutCancel(r.Context()))
	if errors.Is(err, services.ErrRunInProgress) {
		writeJSON(w, http.StatusConflict, runResponse{Status: "running"})
		return
	}
	if err != nil {
		rc.logger.Errorf(providers.TypeHTTP, "Unable to trigger run: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	rc.logger.Infof(providers.TypeHTTP, "Run triggered over HTTP")
	writeJSON(w, http.StatusAccepted, runResponse{Status: "started"})
}
