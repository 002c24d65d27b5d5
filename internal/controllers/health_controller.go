package controllers

import (
	"fmt"
	"net/http"
	"steamledger/internal/models"
	"steamledger/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	job       services.JobServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string            `json:"status"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	LastRun       *models.RunReport `json:"last_run,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		LastRun:       hc.job.LastReport(),
	}

	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func NewHealthController(job services.JobServiceInterface) *HealthController {
	return &HealthController{
		job:       job,
		startTime: time.Now(),
	}
}
