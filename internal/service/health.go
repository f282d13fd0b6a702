package service

import (
	"context"
	"sort"
	"time"
)

type Check func(ctx context.Context) error

type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Time   time.Time         `json:"time"`
}

// HealthService runs dependency checks. Failures degrade the report; they
// never turn into errors.
type HealthService struct {
	checks  map[string]Check
	timeout time.Duration
	now     func() time.Time
}

func NewHealthService(checks map[string]Check) *HealthService {
	return &HealthService{checks: checks, timeout: 2 * time.Second, now: time.Now}
}

func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", Checks: map[string]string{}, Time: s.now()}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.checks[name](cctx)
		cancel()
		if err != nil {
			report.Status = "degraded"
			report.Checks[name] = "error: " + err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}
