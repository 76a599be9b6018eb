package health

import (
	"context"
	"sync"
	"time"
)

// Status is the health state of a component or of the whole service.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// ComponentHealth is the per-dependency report entry.
type ComponentHealth struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type check struct {
	onFailure Status
	probe     Probe
}

// Monitor runs registered probes and aggregates a report. A failing probe
// reports the status it was registered with: critical for the database,
// degraded for the retry queue (sends still work, retries are delayed).
type Monitor struct {
	mu     sync.RWMutex
	checks map[string]check
}

func NewMonitor() *Monitor {
	return &Monitor{checks: make(map[string]check)}
}

// Register adds a probe. onFailure is the status reported when it fails.
func (m *Monitor) Register(name string, onFailure Status, probe Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check{onFailure: onFailure, probe: probe}
}

// CheckHealth runs all probes with a short per-probe timeout.
func (m *Monitor) CheckHealth(ctx context.Context) map[string]ComponentHealth {
	m.mu.RLock()
	checks := make(map[string]check, len(m.checks))
	for name, c := range m.checks {
		checks[name] = c
	}
	m.mu.RUnlock()

	report := make(map[string]ComponentHealth, len(checks))
	for name, c := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.probe(probeCtx)
		cancel()

		if err != nil {
			report[name] = ComponentHealth{Status: c.onFailure, Error: err.Error()}
		} else {
			report[name] = ComponentHealth{Status: StatusHealthy}
		}
	}
	return report
}
