package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"healthconsultant/internal/domain"
	"healthconsultant/internal/metrics"
)

type healthService struct {
	api       domain.ConsultationAPI
	logger    *slog.Logger
	interval  time.Duration
	timeout   time.Duration
	upstream  string
	startedAt time.Time
	scheduler *gocron.Scheduler

	mu     sync.RWMutex
	report domain.HealthReport
}

// NewHealthService returns a HealthService that probes api every interval.
// upstream is only reported, never dialled directly.
func NewHealthService(api domain.ConsultationAPI, logger *slog.Logger, upstream string, interval, timeout time.Duration) domain.HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &healthService{
		api:       api,
		logger:    logger,
		interval:  interval,
		timeout:   timeout,
		upstream:  upstream,
		startedAt: time.Now(),
		scheduler: gocron.NewScheduler(time.Local),
		report:    domain.HealthReport{Status: domain.HealthStatusUnknown, Upstream: upstream},
	}
}

// Start schedules the probe; the first run happens immediately.
func (s *healthService) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.probe)
	if err != nil {
		return fmt.Errorf("failed to schedule health probe: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *healthService) Stop() {
	s.scheduler.Stop()
}

func (s *healthService) Report() domain.HealthReport {
	s.mu.RLock()
	r := s.report
	s.mu.RUnlock()
	r.Uptime = time.Since(s.startedAt).Round(time.Second).String()
	return r
}

func (s *healthService) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.api.Ping(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.report.Status
	s.report.LastChecked = time.Now()
	if err != nil {
		s.report.Status = domain.HealthStatusDegraded
		s.report.LastError = err.Error()
		metrics.UpstreamHealthy.Set(0)
		if prev != domain.HealthStatusDegraded {
			s.logger.Warn("consultation api unreachable", "upstream", s.upstream, "err", err)
		}
		return
	}
	s.report.Status = domain.HealthStatusHealthy
	s.report.LastError = ""
	metrics.UpstreamHealthy.Set(1)
	if prev == domain.HealthStatusDegraded {
		s.logger.Info("consultation api recovered", "upstream", s.upstream)
	}
}
