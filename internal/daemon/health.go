package daemon

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/doclint/internal/version"
)

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
)

// LastRunSummary is the condensed view of the most recent lint pass.
type LastRunSummary struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	Outcome       string    `json:"outcome"`
	TargetsTotal  int       `json:"targets_total"`
	TargetsFailed int       `json:"targets_failed"`
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status        HealthStatus    `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	Uptime        string          `json:"uptime"`
	Version       string          `json:"version"`
	DocsRoot      string          `json:"docs_root"`
	RunsCompleted int             `json:"runs_completed"`
	LastError     string          `json:"last_error,omitempty"`
	LastRun       *LastRunSummary `json:"last_run,omitempty"`
}

// HealthHandler serves daemon health. Violations in the last run are normal
// operation; only a run that could not execute degrades the status.
func (d *Daemon) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	lastRun, lastErr := d.LastRun()

	health := HealthResponse{
		Status:        HealthStatusHealthy,
		Timestamp:     time.Now(),
		Uptime:        time.Since(d.startTime).String(),
		Version:       version.Version,
		DocsRoot:      d.docsRoot,
		RunsCompleted: d.RunCount(),
	}

	if lastErr != nil {
		health.Status = HealthStatusDegraded
		health.LastError = lastErr.Error()
	}
	if lastRun != nil {
		health.LastRun = &LastRunSummary{
			ID:            lastRun.ID,
			StartedAt:     lastRun.StartedAt,
			Outcome:       string(lastRun.Outcome),
			TargetsTotal:  lastRun.TargetCount(),
			TargetsFailed: lastRun.FailedCount(),
		}
	}

	status := http.StatusOK
	if health.Status != HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, status, health)
}
