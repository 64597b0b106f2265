// Package main runs msgsend as a scheduled worker: one configured notification
// is dispatched on a cron schedule, with probes and Prometheus metrics served
// on separate ports.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"msgsend/internal/config"
	"msgsend/internal/domain/entity"
	"msgsend/internal/infra/notifier"
	workerPkg "msgsend/internal/infra/worker"
	"msgsend/internal/observability/logging"
	"msgsend/internal/observability/slo"
	"msgsend/internal/observability/tracing"
	"msgsend/internal/resilience/circuitbreaker"
	"msgsend/internal/usecase/notify"
	pkgconfig "msgsend/pkg/config"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if pkgconfig.GetEnvBool("TRACING_ENABLED", false) {
		shutdown := tracing.InitProvider("msgsend-worker", tracing.NewLogExporter(logger), 1)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shut down tracer provider", slog.Any("error", err))
			}
		}()
	}

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		return 1
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("send_timeout", workerConfig.SendTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort),
		slog.String("credentials_file", workerConfig.CredentialsFile))

	loadCreds := credentialLoader(workerConfig.CredentialsFile, os.LookupEnv)
	creds, err := loadCreds()
	if err != nil {
		logger.Error("failed to load credentials", slog.Any("error", err))
		return 1
	}
	logger.Info("credentials loaded", slog.Int("channels", creds.Len()))

	registry, err := notify.NewDefaultRegistry(config.LoadNotifierConfig())
	if err != nil {
		logger.Error("failed to build channel registry", slog.Any("error", err))
		return 1
	}
	dispatcher := notify.NewDispatcher(registry,
		notify.WithLogger(logger),
		notify.WithCircuitBreakers(circuitbreaker.ScheduledSendConfig))

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger)

	j := &job{
		logger:     logger,
		dispatcher: dispatcher,
		loadCreds:  loadCreds,
		msg:        entity.Message{Title: workerConfig.Title, Content: workerConfig.Content},
		timeout:    workerConfig.SendTimeout,
		metrics:    workerMetrics,
		health:     healthServer,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("health check server starting", slog.Int("port", workerConfig.HealthPort))
		return healthServer.Start(gctx)
	})
	g.Go(func() error {
		return serveMetrics(gctx, logger, workerConfig.MetricsPort, newMetricsHandler(dispatcher))
	})
	g.Go(func() error {
		return runScheduler(gctx, logger, workerConfig, j, healthServer)
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", slog.Any("error", err))
		return 1
	}
	logger.Info("worker stopped")
	return 0
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// credentialLoader returns a function reading the credentials file (when set)
// and the environment overrides. It is called on every run so rotated
// credentials are picked up without a restart.
func credentialLoader(path string, lookupEnv func(string) (string, bool)) func() (*entity.CredentialSet, error) {
	return func() (*entity.CredentialSet, error) {
		creds := entity.NewCredentialSet()
		if path != "" {
			loaded, err := config.LoadCredentialsFile(path)
			if err != nil {
				return nil, err
			}
			creds = loaded
		}
		config.ApplyEnvOverrides(creds, notify.BuiltinChannels(), lookupEnv)
		if creds.Len() == 0 {
			return nil, fmt.Errorf("no credentials: set NOTIFY_CREDENTIALS_FILE or one of %v", notify.BuiltinChannels())
		}
		return creds, nil
	}
}

// runScheduler registers the dispatch job and blocks until ctx is cancelled.
// A run that is still in progress when the next tick fires is not overlapped.
func runScheduler(ctx context.Context, logger *slog.Logger, cfg *workerPkg.WorkerConfig, j *job, healthServer *workerPkg.HealthServer) error {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(cfg.CronSchedule, func() { j.run(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("scheduler stopping, waiting for running dispatch")
	<-c.Stop().Done()
	return nil
}

// job is one scheduled dispatch of the configured message.
type job struct {
	logger     *slog.Logger
	dispatcher *notify.Dispatcher
	loadCreds  func() (*entity.CredentialSet, error)
	msg        entity.Message
	timeout    time.Duration
	metrics    *workerPkg.WorkerMetrics
	health     *workerPkg.HealthServer
}

// run dispatches the message once and records the outcome in metrics, the
// SLO gauges and the liveness probe.
func (j *job) run(parent context.Context) workerPkg.RunInfo {
	start := time.Now()
	j.logger.Info("scheduled dispatch started")

	ctx, cancel := context.WithTimeout(parent, j.timeout)
	defer cancel()

	creds, err := j.loadCreds()
	if err != nil {
		j.logger.Error("scheduled dispatch aborted", slog.String("error", notifier.SanitizeError(err)))
		j.metrics.RecordRun(workerPkg.RunStatusFailure, time.Since(start).Seconds())
		info := workerPkg.RunInfo{Status: workerPkg.RunStatusFailure, StartedAt: start}
		j.health.RecordRun(info)
		return info
	}

	report := j.dispatcher.SendAll(ctx, creds, j.msg)

	attempts := slo.Attempts{
		Succeeded: report.Count(notify.OutcomeSuccess),
		Rejected:  report.Count(notify.OutcomeRejected),
		Failed:    report.Count(notify.OutcomeFailed),
	}
	for _, o := range []notify.Outcome{notify.OutcomeSuccess, notify.OutcomeRejected, notify.OutcomeFailed, notify.OutcomeSkipped} {
		j.metrics.RecordChannels(o.String(), report.Count(o))
	}
	slo.Update(attempts)

	status := workerPkg.RunStatus(report.Succeeded(), report.Failed())
	j.metrics.RecordRun(status, time.Since(start).Seconds())
	if report.Delivered() {
		j.metrics.RecordLastSuccess()
	}

	info := workerPkg.RunInfo{
		DispatchID: report.DispatchID,
		Status:     status,
		StartedAt:  start,
		Delivered:  report.Succeeded(),
		Failed:     report.Failed(),
	}
	j.health.RecordRun(info)

	j.logger.Info("scheduled dispatch completed",
		slog.String("request_id", report.DispatchID),
		slog.String("status", status),
		slog.Int("delivered", info.Delivered),
		slog.Int("failed", info.Failed),
		slog.Int("skipped", report.Count(notify.OutcomeSkipped)),
		slog.Bool("slo_met", attempts.MeetsTargets()),
		slog.Duration("duration", time.Since(start)))

	return info
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
